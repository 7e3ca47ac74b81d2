// Package testutil gives tests access to the fleet files under testdata.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// TestdataFS holds the embedded fleet fixtures.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded fixture.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Fixtures returns the names of all embedded fleet files in sorted order.
func Fixtures() ([]string, error) {
	matches, err := fs.Glob(TestdataFS, "testdata/*.fleet")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = path.Base(m)
	}
	sort.Strings(names)
	return names, nil
}
