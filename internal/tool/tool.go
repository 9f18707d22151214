// Package tool exposes the patch engine as an agent-facing command: a JSON
// request carrying patch text and a workspace root, answered with the list of
// changed paths or a descriptive error. Requests are model-generated, so they
// are schema-validated before anything touches the filesystem.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stitchpatch/stitch/internal/logging"
	"github.com/stitchpatch/stitch/internal/preview"
	"github.com/stitchpatch/stitch/pkg/patch"
)

// Request is the JSON payload the apply_patch tool accepts.
type Request struct {
	Patch  string `json:"patch"`
	Root   string `json:"root,omitempty"`
	DryRun bool   `json:"dryRun,omitempty"`
}

// Response is the tool's observable result. Exactly one of Output or Error is
// populated next to Status.
type Response struct {
	Status  string   `json:"status"`
	Changed []string `json:"changed,omitempty"`
	Output  string   `json:"output,omitempty"`
	Error   string   `json:"error,omitempty"`
}

const (
	// StatusOK marks a fully applied (or fully previewed) patch set.
	StatusOK = "ok"
	// StatusError marks a rejected or partially failed request.
	StatusError = "error"
)

// Handle validates and executes a raw apply_patch request. Errors never
// propagate as Go errors: the model-driven caller only sees the Response, so
// every failure is folded into it.
func Handle(ctx context.Context, raw []byte, logger logging.Logger) Response {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}

	req, err := decodeRequest(raw)
	if err != nil {
		logger.Warn("apply_patch request rejected", logging.Field("reason", err.Error()))
		return Response{Status: StatusError, Error: err.Error()}
	}

	root := req.Root
	if strings.TrimSpace(root) == "" {
		root = "."
	}

	patches, err := patch.Parse(req.Patch)
	if err != nil {
		return Response{Status: StatusError, Error: err.Error()}
	}
	logger.Debug("apply_patch request parsed",
		logging.Field("operations", len(patches)),
		logging.Field("dry_run", req.DryRun))

	if req.DryRun {
		out, err := preview.Render(ctx, root, patches, false)
		if err != nil {
			return Response{Status: StatusError, Error: err.Error()}
		}
		return Response{Status: StatusOK, Output: out}
	}

	result, err := patch.Apply(ctx, root, patches)
	if err != nil {
		logger.Error("apply_patch failed", err)
		return Response{Status: StatusError, Error: err.Error()}
	}
	logger.Info("apply_patch succeeded", logging.Field("changed", len(result.ChangedPaths)))
	return Response{
		Status:  StatusOK,
		Changed: result.ChangedPaths,
		Output:  FormatSuccess(patches, result.ChangedPaths),
	}
}

func decodeRequest(raw []byte) (Request, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Request{}, errors.New("apply_patch: request body is empty")
	}
	if err := validateRequestSchema(trimmed); err != nil {
		return Request{}, err
	}
	var req Request
	if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
		return Request{}, fmt.Errorf("apply_patch: request is not valid JSON: %v", err)
	}
	return req, nil
}

// FormatSuccess renders the applied-files report shared by the tool response
// and the CLI, one status letter and path per line.
func FormatSuccess(patches []patch.Patch, changed []string) string {
	lines := []string{"Success. Updated the following files:"}
	for i, rel := range changed {
		lines = append(lines, fmt.Sprintf("%s %s", StatusLetter(patches[i].Op), rel))
	}
	return strings.Join(lines, "\n")
}

// StatusLetter maps an operation onto its single-letter display status.
func StatusLetter(op patch.Op) string {
	switch op {
	case patch.OpAdd:
		return "A"
	case patch.OpDelete:
		return "D"
	default:
		return "M"
	}
}
