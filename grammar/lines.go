package grammar

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts byte offsets to zero-based line/column pairs and back.
// Columns are available in bytes and in UTF-16 code units, the unit LSP
// clients count in.
type LineIndex struct {
	text  string
	lines []int
}

func NewLineIndex(text string) *LineIndex {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{text: text, lines: lines}
}

func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

func (li *LineIndex) line(offset int) int {
	offset = clamp(offset, len(li.text))
	return sort.Search(len(li.lines), func(i int) bool { return li.lines[i] > offset }) - 1
}

// Position returns the zero-based line and byte column of offset.
func (li *LineIndex) Position(offset int) (line, column int) {
	offset = clamp(offset, len(li.text))
	line = li.line(offset)
	return line, offset - li.lines[line]
}

// UTF16Position is Position with the column counted in UTF-16 code units.
func (li *LineIndex) UTF16Position(offset int) (line, column int) {
	offset = clamp(offset, len(li.text))
	line = li.line(offset)
	for _, r := range li.text[li.lines[line]:offset] {
		if r >= 0x10000 {
			column += 2
		} else {
			column++
		}
	}
	return line, column
}

// OffsetUTF16 maps a line and UTF-16 column back to a byte offset. Positions
// past the end of a line clamp to the line end.
func (li *LineIndex) OffsetUTF16(line, column int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.lines) {
		return len(li.text)
	}
	offset := li.lines[line]
	units := 0
	for offset < len(li.text) && li.text[offset] != '\n' && units < column {
		r, size := utf8.DecodeRuneInString(li.text[offset:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += size
	}
	return offset
}
