package asm

import "strings"

// Split breaks one source line into words. The comment is dropped, quoted
// strings and parenthesized expressions are kept verbatim as single words,
// commas always form a word of their own and everything else is lowercased
// and split on whitespace.
func Split(line string) []string {
	line = stripComment(line)

	var words []string
	var plain strings.Builder
	flush := func() {
		words = append(words, strings.Fields(strings.ToLower(plain.String()))...)
		plain.Reset()
	}

	for i := 0; i < len(line); {
		c := line[i]
		switch c {
		case '\'', '"':
			flush()
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				// Unterminated; the classifier rejects it.
				return append(words, strings.TrimSpace(line[i:]))
			}
			words = append(words, line[i:i+end+2])
			i += end + 2
		case '(':
			flush()
			end := closingParen(line, i)
			if end < 0 {
				return append(words, strings.TrimSpace(line[i:]))
			}
			words = append(words, line[i:end+1])
			i = end + 1
		case ',':
			flush()
			words = append(words, ",")
			i++
		default:
			plain.WriteByte(c)
			i++
		}
	}
	flush()

	return words
}

// stripComment cuts the line at the first ';' that is not inside a string.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			return line[:i]
		}
	}
	return line
}

// closingParen returns the index of the ')' balancing the '(' at open, or -1.
func closingParen(line string, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
