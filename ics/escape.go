package ics

import "strings"

// maxLineOctets is the iCalendar content-line limit before folding.
const maxLineOctets = 75

// EscapeText escapes a free-text value per the iCalendar TEXT rules:
// backslash, semicolon and comma are backslash-escaped and any newline
// (including CRLF and bare CR) becomes the literal two-character sequence \n.
func EscapeText(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, ";", "\\;")
	value = strings.ReplaceAll(value, ",", "\\,")
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	value = strings.ReplaceAll(value, "\n", "\\n")
	return value
}

// UnescapeText inverts EscapeText.
func UnescapeText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 >= len(value) {
			b.WriteByte(c)
			continue
		}
		i++
		switch value[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// FoldLine splits an overlong content line into a first line plus
// continuation lines, each beginning with a single space and each at most
// 75 octets long. Splits never land inside a UTF-8 sequence.
func FoldLine(line string) []string {
	if len(line) <= maxLineOctets {
		return []string{line}
	}
	var folded []string
	for len(line) > maxLineOctets {
		cut := maxLineOctets
		for cut > 1 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		folded = append(folded, line[:cut])
		line = " " + line[cut:]
	}
	return append(folded, line)
}

// Unfold rejoins folded content lines by stripping one leading space per
// continuation line.
func Unfold(document string) string {
	document = strings.ReplaceAll(document, "\r\n ", "")
	return strings.ReplaceAll(document, "\n ", "")
}
