package format

import (
	"io"

	"github.com/dhamidi/yash/workspace"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

var kindTitles = map[string]string{
	"token":       "tokens",
	"nonterminal": "non-terminals",
	"type":        "%union",
	"define":      "%define",
	"definition":  "definitions",
	"state":       "start conditions",
}

// TreeEncoder prints the declarations of a file as a tree, grouped by kind.
type TreeEncoder struct {
	w    io.Writer
	file *workspace.File
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(file *workspace.File) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var list pterm.LeveledList
	kind := ""
	for _, entry := range e.file.Outline() {
		if entry.Kind != kind {
			kind = entry.Kind
			list = append(list, pterm.LeveledListItem{Level: 0, Text: kindTitles[kind]})
		}
		text := entry.Name
		if entry.Detail != "" {
			text += "  " + entry.Detail
		}
		list = append(list, pterm.LeveledListItem{Level: 1, Text: text})
	}

	root := putils.TreeFromLeveledList(list)
	root.Text = e.file.Path + " (" + e.file.Language.String() + ")"
	text, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
