package dispatch

import (
	"strconv"
	"strings"
)

// isRussian reports whether text contains any Cyrillic code point (U+0400–U+04FF).
func isRussian(text string) bool {
	for _, r := range text {
		if r >= 0x0400 && r <= 0x04FF {
			return true
		}
	}
	return false
}

// routeTargets returns the languages text is translated into, in send order.
func routeTargets(text string) []Language {
	if isRussian(text) {
		return []Language{English, Indonesian}
	}
	return []Language{Russian}
}

// parseOperatorCommand splits "/<chatId> <body>". The id is read leniently:
// an optional sign followed by leading digits, anything after them ignored.
// A zero or missing id means text is not a command.
func parseOperatorCommand(text string) (chatID int64, body string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return 0, "", false
	}
	head, body, _ := strings.Cut(text, " ")
	id := leadingInt(strings.Replace(head, "/", "", 1))
	if id == 0 {
		return 0, "", false
	}
	return id, body, true
}

func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
