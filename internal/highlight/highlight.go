package highlight

import (
	"regexp"
	"strings"
)

var csiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// Result is highlighted text plus match positions, so the viewport can
// jump between matching lines.
type Result struct {
	Text      string
	Count     int
	LineIndex []int
}

// Apply wraps every case-insensitive occurrence of term in the styled
// wrapper while leaving existing ANSI escape sequences intact, so
// glamour-rendered output keeps its styling. Matches never span an
// escape-sequence boundary.
func Apply(input, term string, wrap func(string) string) Result {
	term = strings.TrimSpace(term)
	if term == "" {
		return Result{Text: input}
	}
	if wrap == nil {
		wrap = func(s string) string { return s }
	}

	var out strings.Builder
	var matchedLines []int
	total := 0

	for lineNo, line := range strings.Split(input, "\n") {
		if lineNo > 0 {
			out.WriteByte('\n')
		}
		highlighted, n := highlightLine(line, term, wrap)
		out.WriteString(highlighted)
		if n > 0 {
			matchedLines = append(matchedLines, lineNo)
			total += n
		}
	}

	return Result{Text: out.String(), Count: total, LineIndex: matchedLines}
}

// highlightLine walks the line as alternating plain/escape segments and
// highlights only the plain ones.
func highlightLine(line, term string, wrap func(string) string) (string, int) {
	escapes := csiRe.FindAllStringIndex(line, -1)
	if len(escapes) == 0 {
		return highlightPlain(line, term, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, esc := range escapes {
		plain, n := highlightPlain(line[pos:esc[0]], term, wrap)
		out.WriteString(plain)
		out.WriteString(line[esc[0]:esc[1]])
		total += n
		pos = esc[1]
	}
	plain, n := highlightPlain(line[pos:], term, wrap)
	out.WriteString(plain)
	return out.String(), total + n
}

func highlightPlain(s, term string, wrap func(string) string) (string, int) {
	if s == "" {
		return s, 0
	}
	lower := strings.ToLower(s)
	needle := strings.ToLower(term)

	var out strings.Builder
	count := 0
	pos := 0
	for {
		idx := strings.Index(lower[pos:], needle)
		if idx < 0 {
			out.WriteString(s[pos:])
			return out.String(), count
		}
		start := pos + idx
		end := start + len(needle)
		out.WriteString(s[pos:start])
		out.WriteString(wrap(s[start:end]))
		count++
		pos = end
	}
}
