// Command fleetfmt checks and formats fleet files.
//
// Usage:
//
//	fleetfmt [--config FILE] check FILE...
//	fleetfmt [--config FILE] fmt [-w] FILE...
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/KimNorgaard/go-fleetxml"
	"github.com/KimNorgaard/go-fleetxml/fleet"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tool carries the state shared by all commands.
type tool struct {
	opts []fleetxml.Option
	log  *zap.Logger
	out  io.Writer
}

func newApp(stdout, stderr io.Writer) *cli.App {
	t := &tool{out: stdout}
	return &cli.App{
		Name:      "fleetfmt",
		Usage:     "check and format fleet files",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
				EnvVars: []string{"FLEETFMT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if lvl := c.String("log-level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			if t.opts, err = cfg.Options(); err != nil {
				return err
			}
			t.log, err = newLogger(cfg.Log, stderr)
			return err
		},
		After: func(*cli.Context) error {
			if t.log != nil {
				_ = t.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "load every file and report errors",
				ArgsUsage: "FILE...",
				Action:    t.check,
			},
			{
				Name:      "fmt",
				Usage:     "check files and rewrite them in canonical form",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "write",
						Aliases: []string{"w"},
						Usage:   "write the result back to the source file",
					},
				},
				Action: t.format,
			},
		},
	}
}

func (t *tool) check(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("check: no files given", 2)
	}

	errs := make([]error, len(files))
	fleets := make([]*fleet.Fleet, len(files))
	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			fleets[i], errs[i] = loadFile(name, t.opts)
		}(i, name)
	}
	wg.Wait()

	var failed int
	for i, name := range files {
		if err := errs[i]; err != nil {
			failed++
			fields := []zap.Field{zap.String("file", name), zap.Error(err)}
			var fe *fleet.Error
			if errors.As(err, &fe) {
				fields = append(fields, zap.Stringer("kind", fe.Kind))
			}
			t.log.Error("invalid fleet file", fields...)
			continue
		}
		f := fleets[i]
		t.log.Info("fleet file ok",
			zap.String("file", name),
			zap.String("fleet", f.Name),
			zap.Int("ships", len(f.Ships)),
			zap.Int("points", f.Points()),
		)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("check: %d of %d file(s) failed", failed, len(files)), 1)
	}
	return nil
}

func loadFile(name string, opts []fleetxml.Option) (*fleet.Fleet, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fleet.Load(f, opts...)
}

func (t *tool) format(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("fmt: no files given", 2)
	}
	write := c.Bool("write")

	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		// The file must hold a valid fleet. The parsed tree is what gets
		// written, so elements the fleet records do not map are kept.
		if _, err := fleet.Load(bytes.NewReader(data), t.opts...); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out, err := fleetxml.Reformat(data, t.opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, '\n')

		if !write {
			if _, err := t.out.Write(out); err != nil {
				return err
			}
			continue
		}
		if bytes.Equal(data, out) {
			t.log.Debug("already formatted", zap.String("file", name))
			continue
		}
		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(name, out, info.Mode().Perm()); err != nil {
			return err
		}
		t.log.Info("formatted", zap.String("file", name))
	}
	return nil
}
