//go:build go1.18

package fleetxml_test

import (
	"bytes"
	"testing"

	"github.com/KimNorgaard/go-fleetxml"
	"github.com/KimNorgaard/go-fleetxml/internal/testutil"
	"github.com/stretchr/testify/require"
)

func FuzzRoundTrip(f *testing.F) {
	// Seed the corpus with the fleet fixtures.
	names, err := testutil.Fixtures()
	if err != nil {
		f.Fatalf("failed to list fixtures: %v", err)
	}
	for _, name := range names {
		data, err := testutil.ReadTestData(name)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", name, err)
		}
		f.Add(data)
	}

	f.Add([]byte("<a/>"))
	f.Add([]byte("<a x='1' y=\"&#9;\">t<![CDATA[<]]><b/>u</a>"))
	f.Add([]byte("<?xml version=\"1.0\"?><!DOCTYPE a [<!ENTITY e 'x'>]><a><!-- c --></a>"))
	f.Add([]byte("<a>&#xD;&amp;&lt;&gt;&apos;&quot;</a>"))

	f.Fuzz(func(t *testing.T, data []byte) {
		nodes, err := fleetxml.Parse(data)
		if err != nil {
			return
		}

		// A tree that was read must be writable, except for names that
		// are well formed but not namespace-valid.
		var buf bytes.Buffer
		if err := fleetxml.Format(&buf, nodes); err != nil {
			require.Contains(t, err.Error(), "is not a valid qualified name")
			return
		}

		again, err := fleetxml.Parse(buf.Bytes())
		require.NoError(t, err, "Parse failed on our own output:\n%s", buf.String())
		require.Equal(t, nodes, again)

		// Formatting is idempotent.
		var buf2 bytes.Buffer
		require.NoError(t, fleetxml.Format(&buf2, again))
		require.Equal(t, buf.String(), buf2.String())
	})
}
