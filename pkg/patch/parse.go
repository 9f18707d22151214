package patch

import (
	"fmt"
	"strings"
)

// Op identifies the kind of change described by a patch.
type Op string

const (
	// OpUpdate represents an "*** Update File" directive.
	OpUpdate Op = "update"
	// OpAdd represents an "*** Add File" directive.
	OpAdd Op = "add"
	// OpDelete represents an "*** Delete File" directive.
	OpDelete Op = "delete"
)

// LineKind classifies a single line inside a hunk.
type LineKind string

const (
	// LineContext is a line that must already be present and is kept.
	LineContext LineKind = "context"
	// LineAdded is a line introduced by the hunk.
	LineAdded LineKind = "added"
	// LineRemoved is a line deleted by the hunk.
	LineRemoved LineKind = "removed"
)

// HunkLine is one tagged line of a hunk. Text holds the payload with the
// leading marker character stripped.
type HunkLine struct {
	Kind LineKind
	Text string
}

// Hunk is one contiguous edit unit inside an Update section.
type Hunk struct {
	Lines []HunkLine
}

// OldLines returns the sequence the hunk expects to find in the file: the
// context and removed lines, in order.
func (h Hunk) OldLines() []string {
	var out []string
	for _, line := range h.Lines {
		if line.Kind == LineContext || line.Kind == LineRemoved {
			out = append(out, line.Text)
		}
	}
	return out
}

// NewLines returns the sequence the hunk produces: the context and added
// lines, in order.
func (h Hunk) NewLines() []string {
	var out []string
	for _, line := range h.Lines {
		if line.Kind == LineContext || line.Kind == LineAdded {
			out = append(out, line.Text)
		}
	}
	return out
}

// Patch is a single parsed file operation. Hunks is populated for updates and
// AddLines for adds; deletes carry only the path.
type Patch struct {
	Op       Op
	Path     string
	Hunks    []Hunk
	AddLines []string
}

// ParseError reports a malformed patch payload. Line is 1-based.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

const (
	beginMarker  = "*** Begin Patch"
	endMarker    = "*** End Patch"
	updatePrefix = "*** Update File: "
	addPrefix    = "*** Add File: "
	deletePrefix = "*** Delete File: "
)

// isMarker reports whether line spells the given block delimiter, accepting
// the "***"-suffixed variant as equivalent.
func isMarker(line, marker string) bool {
	return line == marker || line == marker+" ***"
}

// Parse converts a textual patch payload into an ordered list of patches.
// Text outside Begin/End Patch blocks is ignored; multiple blocks are parsed
// in document order. Errors are *ParseError values carrying the offending
// 1-based line number.
func Parse(input string) ([]Patch, error) {
	lines := splitInput(input)
	var patches []Patch

	i := 0
	for i < len(lines) {
		if !isMarker(lines[i], beginMarker) {
			i++
			continue
		}
		i++
		closed := false
		for i < len(lines) {
			line := lines[i]
			if isMarker(line, endMarker) {
				i++
				closed = true
				break
			}
			if rest, ok := strings.CutPrefix(line, updatePrefix); ok {
				directiveLine := i + 1
				path, err := directivePath(rest, directiveLine)
				if err != nil {
					return nil, err
				}
				i++
				hunks, err := parseHunks(lines, &i, path)
				if err != nil {
					return nil, err
				}
				if len(hunks) == 0 {
					return nil, &ParseError{Line: directiveLine, Message: fmt.Sprintf("no hunks provided for %s", path)}
				}
				patches = append(patches, Patch{Op: OpUpdate, Path: path, Hunks: hunks})
				continue
			}
			if rest, ok := strings.CutPrefix(line, addPrefix); ok {
				path, err := directivePath(rest, i+1)
				if err != nil {
					return nil, err
				}
				i++
				addLines, err := parseAddLines(lines, &i, path)
				if err != nil {
					return nil, err
				}
				patches = append(patches, Patch{Op: OpAdd, Path: path, AddLines: addLines})
				continue
			}
			if rest, ok := strings.CutPrefix(line, deletePrefix); ok {
				path, err := directivePath(rest, i+1)
				if err != nil {
					return nil, err
				}
				patches = append(patches, Patch{Op: OpDelete, Path: path})
				i++
				continue
			}
			if strings.TrimSpace(line) == "" {
				i++
				continue
			}
			if strings.HasPrefix(line, "*** ") {
				return nil, &ParseError{Line: i + 1, Message: fmt.Sprintf("unsupported patch directive: %s", line)}
			}
			return nil, &ParseError{Line: i + 1, Message: fmt.Sprintf("content outside a file section: %q", line)}
		}
		if !closed {
			return nil, &ParseError{Line: lastContentLine(lines), Message: "missing *** End Patch terminator"}
		}
	}

	if len(patches) == 0 {
		return nil, &ParseError{Line: 1, Message: "no patch operations found"}
	}
	return patches, nil
}

func directivePath(rest string, line int) (string, error) {
	path := strings.TrimSpace(rest)
	if path == "" {
		return "", &ParseError{Line: line, Message: "file directive is missing a path"}
	}
	return path, nil
}

// parseHunks consumes consecutive hunk blocks until the next directive or end
// marker. The index is left on the terminating line.
func parseHunks(lines []string, i *int, path string) ([]Hunk, error) {
	var hunks []Hunk
	for *i < len(lines) {
		line := lines[*i]
		if strings.HasPrefix(line, "*** ") {
			break
		}
		if strings.HasPrefix(strings.TrimSpace(line), "@@") {
			headerLine := *i + 1
			*i++
			hunk, err := parseHunkBody(lines, i, path)
			if err != nil {
				return nil, err
			}
			if len(hunk.Lines) == 0 {
				return nil, &ParseError{Line: headerLine, Message: fmt.Sprintf("empty hunk in %s", path)}
			}
			if len(hunk.OldLines()) == 0 {
				return nil, &ParseError{Line: headerLine, Message: fmt.Sprintf("hunk in %s has no context or removed lines", path)}
			}
			hunks = append(hunks, hunk)
			continue
		}
		return nil, &ParseError{Line: *i + 1, Message: fmt.Sprintf("expected @@ hunk header in %s, got %q", path, line)}
	}
	return hunks, nil
}

// parseHunkBody consumes tagged lines until the next hunk header, directive or
// end marker. Lines are classified by their first character only.
func parseHunkBody(lines []string, i *int, path string) (Hunk, error) {
	var hunk Hunk
	for *i < len(lines) {
		line := lines[*i]
		if strings.HasPrefix(line, "*** ") || strings.HasPrefix(strings.TrimSpace(line), "@@") {
			break
		}
		if line == "" {
			return Hunk{}, &ParseError{Line: *i + 1, Message: fmt.Sprintf("invalid hunk line in %s: %q", path, line)}
		}
		var kind LineKind
		switch line[0] {
		case ' ':
			kind = LineContext
		case '+':
			kind = LineAdded
		case '-':
			kind = LineRemoved
		default:
			return Hunk{}, &ParseError{Line: *i + 1, Message: fmt.Sprintf("invalid hunk line in %s: %q", path, line)}
		}
		hunk.Lines = append(hunk.Lines, HunkLine{Kind: kind, Text: line[1:]})
		*i++
	}
	return hunk, nil
}

// parseAddLines consumes the body of an Add section. Every line must start
// with '+'; exactly that one character is stripped, nothing more. An empty
// body is valid and later produces an empty file.
func parseAddLines(lines []string, i *int, path string) ([]string, error) {
	var out []string
	for *i < len(lines) {
		line := lines[*i]
		if strings.HasPrefix(line, "*** ") {
			break
		}
		if !strings.HasPrefix(line, "+") {
			return nil, &ParseError{Line: *i + 1, Message: fmt.Sprintf("added line in %s must start with '+': %q", path, line)}
		}
		out = append(out, line[1:])
		*i++
	}
	return out, nil
}

// lastContentLine returns the 1-based number of the last non-empty line, so
// errors at end of input do not point at the phantom element a trailing
// newline leaves behind after splitting.
func lastContentLine(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return i + 1
		}
	}
	return 1
}

func splitInput(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
