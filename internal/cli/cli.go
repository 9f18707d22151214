// Package cli wires the patch engine into a command line tool.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/stitchpatch/stitch/internal/logging"
	"github.com/stitchpatch/stitch/internal/preview"
	"github.com/stitchpatch/stitch/internal/tool"
	"github.com/stitchpatch/stitch/internal/tui"
	"github.com/stitchpatch/stitch/pkg/patch"
)

// Run executes the stitch CLI using the provided arguments and streams. It
// returns a POSIX-style exit code. The patch text is read from the first
// positional argument (a file) or, absent one, from stdin.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	defaultRoot := os.Getenv("STITCH_ROOT")
	if defaultRoot == "" {
		defaultRoot = "."
	}
	defaultLevel := logging.ParseLevel(os.Getenv("STITCH_LOG_LEVEL"))

	flagSet := flag.NewFlagSet("stitch", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	rootDir := flagSet.String("C", defaultRoot, "workspace root directory every patch path must stay inside")
	dryRun := flagSet.Bool("dry-run", false, "report what would change without writing anything")
	check := flagSet.Bool("check", false, "parse the patch and exit without applying")
	review := flagSet.Bool("review", false, "show an interactive review screen before applying")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	noColor := flagSet.Bool("no-color", false, "disable colored output")

	if err := flagSet.Parse(args); err != nil {
		return 2
	}

	level := defaultLevel
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewStdLogger(level, stderr)

	body, err := readPatchBody(flagSet.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read patch: %v\n", err)
		return 1
	}

	patches, err := patch.Parse(body)
	if err != nil {
		fmt.Fprintf(stderr, "parse error: %v\n", err)
		return 1
	}
	logger.Debug("patch parsed", logging.Field("operations", len(patches)))

	if *check {
		fmt.Fprintf(stdout, "Parsed %d operation(s):\n", len(patches))
		for _, p := range patches {
			fmt.Fprintf(stdout, "%s %s\n", tool.StatusLetter(p.Op), p.Path)
		}
		return 0
	}

	color := !*noColor && termenv.EnvColorProfile() != termenv.Ascii

	if *dryRun {
		out, err := preview.Render(ctx, *rootDir, patches, color)
		if err != nil {
			fmt.Fprintf(stderr, "dry run failed: %v\n", err)
			return 1
		}
		fmt.Fprint(stdout, out)
		return 0
	}

	if *review {
		approved, err := tui.Run(patches)
		if err != nil {
			fmt.Fprintf(stderr, "review failed: %v\n", err)
			return 1
		}
		if !approved {
			fmt.Fprintln(stdout, "Aborted; no changes applied.")
			return 1
		}
	}

	result, err := patch.Apply(ctx, *rootDir, patches)
	if err != nil {
		logger.Error("apply failed", err)
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	printResult(stdout, patches, result, color)
	logger.Debug("apply finished", logging.Field("changed", len(result.ChangedPaths)))
	return 0
}

func readPatchBody(args []string, stdin io.Reader) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("expected at most one patch file, got %d arguments", len(args))
	}
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printResult(stdout io.Writer, patches []patch.Patch, result *patch.Result, color bool) {
	if !color {
		fmt.Fprintln(stdout, tool.FormatSuccess(patches, result.ChangedPaths))
		return
	}
	styles := map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"M": lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		"D": lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
	fmt.Fprintln(stdout, "Success. Updated the following files:")
	for i, rel := range result.ChangedPaths {
		letter := tool.StatusLetter(patches[i].Op)
		fmt.Fprintf(stdout, "%s %s\n", styles[letter].Render(letter), rel)
	}
}
