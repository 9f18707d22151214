package patch

import "strings"

// fileContent is a file decomposed into logical lines plus enough metadata to
// reassemble it without disturbing its line-ending style.
type fileContent struct {
	lines           []string
	eol             string
	endsWithNewline bool
}

// splitContent decomposes raw file content. The dominant ending style is CRLF
// when any CRLF sequence occurs in the raw bytes, LF otherwise.
func splitContent(raw string) fileContent {
	eol := "\n"
	if strings.Contains(raw, "\r\n") {
		eol = "\r\n"
	}
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	ends := strings.HasSuffix(normalized, "\n")
	if ends {
		normalized = strings.TrimSuffix(normalized, "\n")
	}
	var lines []string
	if raw != "" {
		lines = strings.Split(normalized, "\n")
	}
	return fileContent{lines: lines, eol: eol, endsWithNewline: ends}
}

// join reassembles the file, restoring the detected ending style and the
// original trailing-terminator presence.
func (c fileContent) join() string {
	out := strings.Join(c.lines, c.eol)
	if c.endsWithNewline {
		out += c.eol
	}
	return out
}
