package command

import (
	"strconv"
	"strings"
	"unicode"
)

// Ordinal renders a 1-based rank as "1st", "2nd", "23rd", ...
func Ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// teens always take "th"
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// firstInt returns the first token parseable as an integer, or def.
func firstInt(args []string, def int) int {
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			return n
		}
	}
	return def
}

// isoDate trims an ISO-8601 timestamp down to its date part.
func isoDate(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}
