package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/yash/workspace"
)

type JSONEncoder struct {
	w    io.Writer
	file *workspace.File
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(file *workspace.File) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

type jsonFile struct {
	Path     string             `json:"path"`
	Language workspace.Language `json:"language"`
	Document any                `json:"document"`
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonFile{
		Path:     e.file.Path,
		Language: e.file.Language,
		Document: e.file.Document(),
	}
	return json.MarshalIndent(data, "", "  ")
}
