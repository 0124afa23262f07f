// Package message assembles Telegram HTML messages for translated articles and
// splits them into parts that fit a single Telegram message.
package message

import "strings"

// MaxLength is the part size limit in characters. Telegram allows 4096; the margin
// leaves room for HTML entities.
const MaxLength = 4000

const sourceLinkText = "Original Article"

var urlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeURL escapes a URL for use inside an HTML attribute.
func EscapeURL(url string) string {
	return urlReplacer.Replace(url)
}

// Format renders a bold title (when present), the body and a link to the source.
// Title and body are inserted as is.
func Format(title, body, url string) string {
	var b strings.Builder

	if title != "" {
		b.WriteString("<b>")
		b.WriteString(title)
		b.WriteString("</b>\n\n")
	}

	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(`<a href="`)
	b.WriteString(EscapeURL(url))
	b.WriteString(`">`)
	b.WriteString(sourceLinkText)
	b.WriteString("</a>")

	return b.String()
}

// Split cuts text into ordered parts of at most maxLength characters. Each part ends
// at the last newline inside its window, which is dropped; a window without one is
// cut hard at the limit.
func Split(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = MaxLength
	}

	runes := []rune(text)
	if len(runes) <= maxLength {
		return []string{text}
	}

	var parts []string
	pos := 0
	for pos < len(runes) {
		end := pos + maxLength
		if end >= len(runes) {
			parts = append(parts, string(runes[pos:]))
			break
		}

		splitAt := lastNewline(runes, pos, end)
		if splitAt > pos {
			parts = append(parts, string(runes[pos:splitAt]))
			pos = splitAt + 1
		} else {
			parts = append(parts, string(runes[pos:end]))
			pos = end
		}
	}

	return parts
}

// lastNewline returns the index of the last '\n' in runes[from:to], or -1.
func lastNewline(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if runes[i] == '\n' {
			return i
		}
	}

	return -1
}
