package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/workspace"
)

// LineEncoder writes one problem per line in the form editors and compilers
// use: path:line:column: severity: message. Lines and columns are one-based.
type LineEncoder struct {
	w    io.Writer
	file *workspace.File
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(file *workspace.File) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	f := e.file

	for _, p := range f.Problems() {
		fmt.Fprintf(&sb, "%s: %s: %s\n", position(f, p.Offset), p.Severity, p.Message)
		if p.Related != nil {
			fmt.Fprintf(&sb, "%s: note: %s\n", position(f, p.Related.Offset), p.Related.Message)
		}
	}

	return []byte(sb.String()), nil
}

func position(f *workspace.File, offset int) string {
	line, col := f.Lines.Position(offset)
	return fmt.Sprintf("%s:%d:%d", f.Path, line+1, col+1)
}

// Summary counts the problems of files by severity, e.g.
// "2 errors, 1 warning".
func Summary(problems grammar.Problems) string {
	errs := problems.Count(grammar.SeverityError)
	warnings := problems.Count(grammar.SeverityWarning)
	return plural(errs, "error") + ", " + plural(warnings, "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
