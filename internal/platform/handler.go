// Package platform adapts heterogeneous content sources (YouTube,
// Bilibili, local media files) to one acquisition contract. Each handler
// validates input syntactically, describes an item cheaply, and runs the
// acquisition chain to produce a transcript artifact.
package platform

import (
	"strings"

	"readvideo/internal/model"
)

// Options tune a single Process call.
type Options struct {
	// Language forces the transcription language; empty enables
	// auto-detection.
	Language string
	// KeepTempFiles leaves downloaded audio in place for debugging.
	KeepTempFiles bool
}

// Handler is the uniform contract over one source kind. Process never
// propagates chain failures as errors: a failed item is a normal
// ProcessingResult. Only Fatal configuration errors surface as errors.
type Handler interface {
	Name() string
	ValidateInput(raw string) bool
	Describe(raw string) (model.Metadata, error)
	Process(raw, outputDir string, opts Options) (model.ProcessingResult, error)
}

// Detect picks the handler kind for a raw input string: a YouTube URL, a
// Bilibili URL, or anything else treated as a local path.
func Detect(raw string) string {
	switch {
	case isYouTubeInput(raw):
		return "youtube"
	case isBilibiliInput(raw):
		return "bilibili"
	default:
		return "local"
	}
}

func isYouTubeInput(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

func isBilibiliInput(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "bilibili.com") || strings.Contains(lower, "b23.tv")
}

func failedResult(id, message string) model.ProcessingResult {
	return model.ProcessingResult{ItemID: id, Success: false, Error: message}
}
