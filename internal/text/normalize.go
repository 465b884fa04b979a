package text

import "strings"

const byteOrderMark = "\uFEFF"

// CleanInput prepares text read from a file or stdin for analysis. It drops
// a leading byte order mark, normalizes CRLF and bare CR to LF and removes a
// single trailing line ending. Interior content is left untouched.
func CleanInput(s string) string {
	s = strings.TrimPrefix(s, byteOrderMark)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSuffix(s, "\n")
}
