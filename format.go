package fleetxml

import (
	"bytes"
	"io"

	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Format writes nodes to w as a document.
func Format(w io.Writer, nodes tree.Nodes, opts ...Option) error {
	return NewEncoder(w, opts...).EncodeTree(nodes)
}

// Reformat parses the document in data and writes it back in canonical
// form. Comments, processing instructions and whitespace-only text are
// dropped.
func Reformat(data []byte, opts ...Option) ([]byte, error) {
	nodes, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Format(&buf, nodes, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
