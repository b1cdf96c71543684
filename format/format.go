// Package format renders parsed grammar files for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/yash/workspace"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(file *workspace.File) error
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "pretty":
		return NewPrettyEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
