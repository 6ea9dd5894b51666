// Package tools wraps the external collaborators: yt-dlp and BBDown for
// catalog listing and audio download, ffmpeg for format conversion, and
// whisper-cli for transcription. Each wrapper returns typed errors so the
// acquisition chain can classify failures without parsing text upstream.
package tools

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"readvideo/internal/errclass"
)

// run executes a tool and returns stdout, converting failures into typed
// errors using stderr hints.
func run(op string, args ...string) ([]byte, error) {
	cmd := exec.Command(op, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, toolError(op, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func toolError(op string, err error, stderr string) error {
	detail := strings.TrimSpace(stderr)
	if len(detail) > 1200 {
		detail = detail[:1200]
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return errclass.Processing(op, fmt.Errorf("%s not found on PATH", op))
	}

	wrapped := fmt.Errorf("%s failed: %w", op, err)
	if detail != "" {
		wrapped = fmt.Errorf("%s failed: %w: %s", op, err, detail)
	}
	switch {
	case errclass.MatchesAccessBlockedHint(detail):
		return errclass.AccessBlocked(op, wrapped.Error())
	case errclass.MatchesDependencyHint(detail):
		return errclass.Processing(op, wrapped)
	case errclass.Classify(errors.New(detail)) == errclass.Retryable:
		return errclass.Network(op, wrapped)
	default:
		return errclass.Processing(op, wrapped)
	}
}

func lookPath(bin string) (string, bool) {
	path, err := exec.LookPath(bin)
	return path, err == nil
}
