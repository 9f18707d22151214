// Package preview renders the effect of a patch set without touching the
// filesystem. It loads the affected files, applies the patches to an
// in-memory snapshot and formats a per-file character diff.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/stitchpatch/stitch/pkg/patch"
)

// Render applies patches to an in-memory copy of the workspace and returns a
// human-readable report. The filesystem is only read, never written, so a
// failing hunk reports the same error a real apply would.
func Render(ctx context.Context, rootDir string, patches []patch.Patch, color bool) (string, error) {
	root, err := patch.NewRoot(rootDir)
	if err != nil {
		return "", err
	}

	// Every target is pre-read, Add included: an Add whose target already
	// exists must fail the preview exactly like a real apply.
	files := map[string]string{}
	for _, p := range patches {
		target, err := root.Resolve(p.Path)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Missing targets surface as apply errors below.
				continue
			}
			return "", err
		}
		files[p.Path] = string(data)
	}

	updated, result, err := patch.ApplyToMemory(ctx, files, patches)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dry run: %d operation(s) would be applied.\n", len(result.ChangedPaths))
	for i, rel := range result.ChangedPaths {
		fmt.Fprintf(&b, "\n%s %s\n", statusLetter(patches[i].Op), rel)
		before := files[rel]
		after, ok := updated[rel]
		if !ok {
			after = ""
		}
		if diff := renderDiff(before, after, color); diff != "" {
			b.WriteString(diff)
			if !strings.HasSuffix(diff, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

func statusLetter(op patch.Op) string {
	switch op {
	case patch.OpAdd:
		return "A"
	case patch.OpDelete:
		return "D"
	default:
		return "M"
	}
}

// renderDiff produces a compact character diff between the old and new file
// content, colored when the terminal supports it.
func renderDiff(before, after string, color bool) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if color {
		return dmp.DiffPrettyText(diffs)
	}
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
