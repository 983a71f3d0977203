package executor

import (
	"path"
	"strings"
)

// firstToken returns the first whitespace-delimited word of command.
func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// commandWords splits a shell command line into words, treating shell
// operators as separators. Quoting is not interpreted; the result is only
// used for matching command names.
func commandWords(command string) []string {
	return strings.FieldsFunc(command, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '|', ';', '&', '(', ')', '`':
			return true
		}
		return false
	})
}

// matchesAny reports whether any word, or its base name, is in names.
func matchesAny(words, names []string) bool {
	for _, w := range words {
		base := path.Base(w)
		for _, n := range names {
			if w == n || base == n {
				return true
			}
		}
	}
	return false
}

// containsName reports whether name is in names.
func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
