package patch

import (
	"context"
	"fmt"
)

// ApplyError reports a failure while applying a single patch to the
// workspace. Matches is populated for ambiguous hunks and Err carries the
// native I/O error when one caused the failure.
type ApplyError struct {
	Path    string
	Message string
	Matches int
	Err     error
}

func (e *ApplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Result lists the relative paths successfully changed, in processing order.
type Result struct {
	ChangedPaths []string
}

// Apply resolves every patch path against root and applies the patches to the
// OS filesystem, strictly in the given order. The first error aborts the
// whole call; operations completed before the failure remain applied and no
// rollback is attempted. Callers needing set-wide atomicity must snapshot the
// workspace externally.
func Apply(ctx context.Context, rootDir string, patches []Patch) (*Result, error) {
	root, err := NewRoot(rootDir)
	if err != nil {
		return nil, err
	}
	return applyAll(ctx, root, patches, osWorkspace{})
}

func applyAll(ctx context.Context, root *Root, patches []Patch, ws workspace) (*Result, error) {
	result := &Result{}
	for _, p := range patches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target, err := root.Resolve(p.Path)
		if err != nil {
			return nil, err
		}
		switch p.Op {
		case OpUpdate:
			err = applyUpdate(ws, target, p)
		case OpAdd:
			err = applyAdd(ws, target, p)
		case OpDelete:
			err = applyDelete(ws, target, p)
		default:
			err = &ApplyError{Path: p.Path, Message: fmt.Sprintf("unsupported patch operation %q", p.Op)}
		}
		if err != nil {
			return nil, err
		}
		result.ChangedPaths = append(result.ChangedPaths, p.Path)
	}
	return result, nil
}

// applyUpdate reads the target once, applies every hunk top to bottom and
// writes the whole result back preserving the file's line-ending style.
func applyUpdate(ws workspace, target string, p Patch) error {
	exists, err := ws.Exists(target)
	if err != nil {
		return &ApplyError{Path: p.Path, Message: "stat failed", Err: err}
	}
	if !exists {
		return &ApplyError{Path: p.Path, Message: "file does not exist"}
	}
	raw, err := ws.ReadFile(target)
	if err != nil {
		return &ApplyError{Path: p.Path, Message: "read failed", Err: err}
	}
	content := splitContent(string(raw))

	cursor := 0
	for _, hunk := range p.Hunks {
		old := hunk.OldLines()
		if len(old) == 0 {
			return &ApplyError{Path: p.Path, Message: "hunk has no context or removed lines"}
		}
		index, count := findMatches(content.lines, old, cursor)
		if count == 0 {
			return &ApplyError{Path: p.Path, Message: "hunk context not found"}
		}
		if count > 1 {
			return &ApplyError{
				Path:    p.Path,
				Message: fmt.Sprintf("ambiguous hunk: context matches %d locations", count),
				Matches: count,
			}
		}
		replacement := hunk.NewLines()
		content.lines = splice(content.lines, index, len(old), replacement)
		cursor = index + len(replacement)
	}

	if err := ws.WriteFile(target, []byte(content.join())); err != nil {
		return &ApplyError{Path: p.Path, Message: "write failed", Err: err}
	}
	return nil
}

// applyAdd refuses to overwrite an existing file. Content is the add lines
// joined by LF with exactly one trailing LF; zero lines produce a zero-byte
// file.
func applyAdd(ws workspace, target string, p Patch) error {
	exists, err := ws.Exists(target)
	if err != nil {
		return &ApplyError{Path: p.Path, Message: "stat failed", Err: err}
	}
	if exists {
		return &ApplyError{Path: p.Path, Message: "file already exists"}
	}
	var content string
	if len(p.AddLines) > 0 {
		content = joinAddLines(p.AddLines)
	}
	if err := ws.WriteFile(target, []byte(content)); err != nil {
		return &ApplyError{Path: p.Path, Message: "write failed", Err: err}
	}
	return nil
}

func joinAddLines(lines []string) string {
	var b []byte
	for _, line := range lines {
		b = append(b, line...)
		b = append(b, '\n')
	}
	return string(b)
}

func applyDelete(ws workspace, target string, p Patch) error {
	exists, err := ws.Exists(target)
	if err != nil {
		return &ApplyError{Path: p.Path, Message: "stat failed", Err: err}
	}
	if !exists {
		return &ApplyError{Path: p.Path, Message: "file does not exist"}
	}
	if err := ws.Remove(target); err != nil {
		return &ApplyError{Path: p.Path, Message: "delete failed", Err: err}
	}
	return nil
}

// findMatches locates needle as a contiguous run within haystack at positions
// at or after start. It returns the first match index and the total number of
// matches in range; anything other than exactly one match is rejected by the
// caller.
func findMatches(haystack, needle []string, start int) (int, int) {
	if start < 0 {
		start = 0
	}
	first := -1
	count := 0
	for i := start; i+len(needle) <= len(haystack); i++ {
		matched := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				matched = false
				break
			}
		}
		if matched {
			if first == -1 {
				first = i
			}
			count++
		}
	}
	return first, count
}

func splice(target []string, index, deleteCount int, replacement []string) []string {
	result := make([]string, 0, len(target)-deleteCount+len(replacement))
	result = append(result, target[:index]...)
	result = append(result, replacement...)
	result = append(result, target[index+deleteCount:]...)
	return result
}
