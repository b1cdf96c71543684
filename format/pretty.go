package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/workspace"
	"github.com/pterm/pterm"
)

var severityStyles = map[grammar.Severity]*pterm.Style{
	grammar.SeverityError:       pterm.NewStyle(pterm.FgRed, pterm.Bold),
	grammar.SeverityWarning:     pterm.NewStyle(pterm.FgYellow, pterm.Bold),
	grammar.SeverityInformation: pterm.NewStyle(pterm.FgCyan),
}

var (
	locationStyle = pterm.NewStyle(pterm.Bold)
	gutterStyle   = pterm.NewStyle(pterm.FgGray)
)

// PrettyEncoder prints problems for a terminal, each followed by the source
// line it refers to with the offending range underlined.
type PrettyEncoder struct {
	w    io.Writer
	file *workspace.File
}

func NewPrettyEncoder(w io.Writer) *PrettyEncoder {
	return &PrettyEncoder{w: w}
}

func (e *PrettyEncoder) Encode(file *workspace.File) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *PrettyEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	f := e.file
	text := f.Text()

	for _, p := range f.Problems() {
		offset := min(max(p.Offset, 0), len(text))
		line, col := f.Lines.Position(offset)
		style := severityStyles[p.Severity]
		fmt.Fprintf(&sb, "%s %s %s\n",
			locationStyle.Sprint(position(f, offset)),
			style.Sprint(p.Severity.String()),
			p.Message,
		)

		start := offset - col
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		source := strings.TrimRight(text[start:end], "\r")
		gutter := fmt.Sprintf("%5d | ", line+1)
		fmt.Fprintf(&sb, "%s%s\n", gutterStyle.Sprint(gutter), source)

		width := min(p.End, start+len(source)) - offset
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(&sb, "%s%s%s\n",
			gutterStyle.Sprint(strings.Repeat(" ", len(gutter)-2)+"| "),
			indentLike(source[:min(col, len(source))]),
			style.Sprint(strings.Repeat("^", width)),
		)

		if p.Related != nil {
			fmt.Fprintf(&sb, "%s note: %s\n", locationStyle.Sprint(position(f, p.Related.Offset)), p.Related.Message)
		}
	}

	return []byte(sb.String()), nil
}

// indentLike blanks prefix but keeps its tabs so that a marker lines up
// with the source above it.
func indentLike(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, prefix)
}
