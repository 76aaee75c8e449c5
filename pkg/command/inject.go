package command

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/olimci/dtpl/pkg/dtpl"
)

var (
	lineBreak  = regexp.MustCompile(`\r?\n`)
	importLine = regexp.MustCompile(`^\s*(import[\s{('"*]|export\s+(\*|\{|type\s*\{).*\bfrom\b|(var|let|const)\s+[\w${}\s,:]+=\s*require\s*\()`)
)

// Inject writes a reference into content. Explicit positions are used when set; otherwise a
// script file gets the reference after its imports when smart is true, and any other file gets it
// at the start.
func Inject(content string, r dtpl.Related, eol string, script bool) string {
	if r.Reference == "" {
		return content
	}
	if r.Begin == nil && r.End == nil && r.SmartInsertStyle && script {
		return smartInsert(content, r.Reference, eol)
	}

	begin := dtpl.Point{}
	if r.Begin != nil {
		begin = *r.Begin
	}
	return replaceRange(content, r.Reference, begin, r.End, eol)
}

// smartInsert puts reference on its own line after the last import. A line that already carries
// the reference, commented or not, is replaced instead.
func smartInsert(content, reference, eol string) string {
	if content == "" {
		return reference
	}
	lines := lineBreak.Split(content, -1)

	for i, line := range lines {
		if !isReference(line, reference) {
			continue
		}
		if line == reference {
			return content
		}
		lines[i] = reference
		return strings.Join(lines, eol)
	}

	at := insertionLine(lines)
	lines = append(lines[:at], append([]string{reference}, lines[at:]...)...)
	return strings.Join(lines, eol)
}

// isReference reports whether line is reference itself, possibly indented or commented out.
func isReference(line, reference string) bool {
	trimmed := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(trimmed, "//"); ok {
		trimmed = strings.TrimSpace(rest)
	}
	return trimmed == strings.TrimSpace(reference)
}

// insertionLine is the line after the last import statement, or the first line of code when there
// are no imports.
func insertionLine(lines []string) int {
	last := -1
	for i := 0; i < len(lines); i++ {
		if !importLine.MatchString(lines[i]) {
			continue
		}
		end := statementEnd(lines, i)
		last, i = end, end
	}
	if last >= 0 {
		return last + 1
	}

	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
		case trimmed == "", strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "#!"):
		case strings.HasPrefix(trimmed, "/*"):
			inBlock = !strings.Contains(trimmed[2:], "*/")
		default:
			return i
		}
	}
	return len(lines)
}

// statementEnd follows an import whose braces span several lines.
func statementEnd(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if depth <= 0 {
			return i
		}
	}
	return start
}

// replaceRange replaces the text between begin and end with reference, or inserts it at begin
// when end is nil. Rows past the end append; columns past a line's end clamp to it.
func replaceRange(content, reference string, begin dtpl.Point, end *dtpl.Point, eol string) string {
	lines := lineBreak.Split(content, -1)

	if begin.Row >= len(lines) {
		if content == "" {
			return reference
		}
		return strings.Join(lines, eol) + eol + reference
	}

	bRow, bCol := clamp(lines, begin)
	eRow, eCol := bRow, bCol
	if end != nil {
		eRow, eCol = clamp(lines, *end)
		if eRow < bRow || eRow == bRow && eCol < bCol {
			eRow, eCol = bRow, bCol
		}
	}

	joined := string([]rune(lines[bRow])[:bCol]) + reference + string([]rune(lines[eRow])[eCol:])
	out := append([]string{}, lines[:bRow]...)
	out = append(out, joined)
	out = append(out, lines[eRow+1:]...)
	return strings.Join(out, eol)
}

// clamp bounds p to the document. Columns count runes.
func clamp(lines []string, p dtpl.Point) (int, int) {
	row := max(0, min(p.Row, len(lines)-1))
	col := max(0, min(p.Col, utf8.RuneCountInString(lines[row])))
	return row, col
}
