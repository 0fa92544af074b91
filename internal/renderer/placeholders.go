package renderer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	openTag  = "<input>"
	closeTag = "</input>"
)

// marker is one well-formed <input>label</input> occurrence in a body.
type marker struct {
	start, end int    // byte offsets of the whole marker, end exclusive
	label      string // trimmed inner text
}

// scanMarkers finds the placeholder markers in body with a single left-to-right
// pass. Tags match case-insensitively and each marker ends at the nearest closing
// tag. A candidate whose inner text crosses a line break or contains another
// opening tag is not a marker; its text stays literal.
func scanMarkers(body string) []marker {
	var markers []marker

	i := 0
	for i < len(body) {
		start := indexTag(body, i, openTag)
		if start < 0 {
			break
		}
		labelStart := start + len(openTag)

		end := indexTag(body, labelStart, closeTag)
		if end < 0 {
			// Unterminated: nothing after this point can close either.
			break
		}

		inner := body[labelStart:end]
		if nested := indexTag(inner, 0, openTag); nested >= 0 {
			i = labelStart + nested
			continue
		}
		if strings.ContainsAny(inner, "\n\r\u2028\u2029") {
			i = labelStart
			continue
		}

		markers = append(markers, marker{
			start: start,
			end:   end + len(closeTag),
			label: strings.TrimSpace(inner),
		})
		i = end + len(closeTag)
	}

	return markers
}

// indexTag returns the index of tag in s at or after from, comparing ASCII
// letters case-insensitively, or -1.
func indexTag(s string, from int, tag string) int {
	for i := from; i+len(tag) <= len(s); i++ {
		if s[i] != '<' {
			continue
		}
		if equalFoldASCII(s[i:i+len(tag)], tag) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ExtractFields returns the distinct placeholder labels of body in the order they
// first appear. Labels are trimmed and compared case-sensitively. A body without
// markers yields an empty slice.
func ExtractFields(body string) []string {
	markers := scanMarkers(body)

	fields := make([]string, 0, len(markers))
	firstSeen := make(map[string]int, len(markers))
	for _, m := range markers {
		if _, ok := firstSeen[m.label]; ok {
			continue
		}
		firstSeen[m.label] = len(fields)
		fields = append(fields, m.label)
	}
	return fields
}

// Render substitutes every placeholder marker in body. A marker becomes the
// non-empty value stored under its trimmed label, or "[label]" otherwise.
func Render(body string, values map[string]string) string {
	markers := scanMarkers(body)
	if len(markers) == 0 {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))

	last := 0
	for _, m := range markers {
		b.WriteString(body[last:m.start])
		if v := values[m.label]; v != "" {
			b.WriteString(v)
		} else {
			b.WriteString(Fallback(m.label))
		}
		last = m.end
	}
	b.WriteString(body[last:])

	return b.String()
}

// Fallback is the text substituted for a label that has no value.
func Fallback(label string) string {
	return "[" + label + "]"
}

// DisplayLabel turns a raw label into a form caption: bracket characters and
// the words "insert" and "paste" are removed and each word is capitalized.
// It is for display only; matching always uses the raw label.
func DisplayLabel(label string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '{', '}':
			return -1
		}
		return r
	}, label)

	var words []string
	for _, w := range strings.Fields(stripped) {
		lw := strings.ToLower(w)
		if lw == "insert" || lw == "paste" {
			continue
		}
		words = append(words, capitalize(w))
	}

	if len(words) == 0 {
		return strings.TrimSpace(label)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// CaseCollisions groups field labels that differ only by letter case. Such
// labels are distinct fields, which users rarely intend.
func CaseCollisions(fields []string) [][]string {
	groups := make(map[string][]string)
	var order []string
	for _, f := range fields {
		key := strings.ToLower(f)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	var collisions [][]string
	for _, key := range order {
		if len(groups[key]) > 1 {
			collisions = append(collisions, groups[key])
		}
	}
	return collisions
}
