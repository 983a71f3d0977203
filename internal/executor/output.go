package executor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// NoOutputText replaces the stream blocks when both streams are empty.
const NoOutputText = "Command executed with no output"

// truncationNotice is appended to a stream cut at the character limit.
const truncationNotice = "\n... (output truncated, showing first %d characters)"

// shapeStream decodes captured bytes and applies the character limit.
// overflow means the runner already discarded bytes past its capture limit.
func shapeStream(b []byte, overflow bool, maxChars int) string {
	return truncateText(decodeText(b), overflow, maxChars)
}

// decodeText decodes b as UTF-8, replacing each invalid byte with U+FFFD.
func decodeText(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// truncateText keeps the first maxChars characters of text and appends a
// notice naming how many were kept. maxChars <= 0 disables the limit.
func truncateText(text string, overflow bool, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	n := utf8.RuneCountInString(text)
	if n <= maxChars && !overflow {
		return text
	}
	shown := n
	if n > maxChars {
		text = text[:runeOffset(text, maxChars)]
		shown = maxChars
	}
	return text + fmt.Sprintf(truncationNotice, shown)
}

// runeOffset returns the byte index of the n-th character of s.
func runeOffset(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// formatOutput renders the stream blocks and the exit code footer.
func formatOutput(stdout, stderr string, exitCode int, dir string) string {
	var parts []string
	if stdout != "" {
		parts = append(parts, "STDOUT:\n"+stdout)
	}
	if stderr != "" {
		parts = append(parts, "STDERR:\n"+stderr)
	}

	body := NoOutputText
	if len(parts) > 0 {
		body = strings.Join(parts, "\n\n")
	}
	return fmt.Sprintf("%s\n\nExit code: %d\nWorking directory: %s", body, exitCode, dir)
}
