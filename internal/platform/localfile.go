package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readvideo/internal/acquire"
	"readvideo/internal/config"
	"readvideo/internal/errclass"
	"readvideo/internal/model"
	"readvideo/internal/tools"
)

// LocalFileHandler transcribes media files already on disk. Video files
// get their audio track extracted first; everything then goes through
// the same convert-and-transcribe path as downloaded audio.
type LocalFileHandler struct {
	chain *acquire.Chain

	extract    func(videoFile, outputDir string) (string, error)
	convert    func(inputFile, outputDir string) (string, error)
	transcribe func(wavFile, language, outputDir string) (string, string, error)
}

func NewLocalFileHandler(cfg config.Config) *LocalFileHandler {
	return &LocalFileHandler{
		chain:      acquire.NewChain(cfg.MaxRetries, cfg.RetryBaseDelay),
		extract:    tools.ExtractAudio,
		convert:    tools.ConvertToWAV,
		transcribe: tools.Whisper{ModelPath: cfg.WhisperModelPath}.Transcribe,
	}
}

func (h *LocalFileHandler) Name() string { return "local" }

// ValidateInput is syntactic only: the extension must be a supported
// media type. Existence is checked at Process time.
func (h *LocalFileHandler) ValidateInput(raw string) bool {
	return tools.IsSupportedAudio(raw) || tools.IsSupportedVideo(raw)
}

func (h *LocalFileHandler) Describe(raw string) (model.Metadata, error) {
	if !h.ValidateInput(raw) {
		return model.Metadata{}, fmt.Errorf("unsupported media file: %s", raw)
	}
	base := strings.TrimSuffix(filepath.Base(raw), filepath.Ext(raw))
	return model.Metadata{ID: base, Title: base, Platform: "local", URL: raw}, nil
}

func (h *LocalFileHandler) Process(raw, outputDir string, opts Options) (model.ProcessingResult, error) {
	if !h.ValidateInput(raw) {
		return failedResult("", "unsupported media file: "+raw), nil
	}
	base := strings.TrimSuffix(filepath.Base(raw), filepath.Ext(raw))
	if _, err := os.Stat(raw); err != nil {
		return failedResult(base, fmt.Sprintf("media file not readable: %v", err)), nil
	}

	workDir, err := os.MkdirTemp("", "readvideo-work-*")
	if err != nil {
		return failedResult(base, fmt.Sprintf("create work dir: %v", err)), nil
	}
	if !opts.KeepTempFiles {
		defer os.RemoveAll(workDir)
	}

	item := model.ContentItem{ID: base, Title: base, URL: raw}
	strategies := []acquire.Strategy{transcriptionStrategy{
		language:   opts.Language,
		download:   h.prepareAudio,
		convert:    h.convert,
		transcribe: h.transcribe,
	}}
	outcome, err := h.chain.Acquire(item, workDir, strategies)
	if err != nil {
		return model.ProcessingResult{ItemID: base}, err
	}
	if !outcome.Success {
		return failedResult(base, outcome.Err.Error()), nil
	}

	path, err := writeTranscript(outputDir, base, base, outcome.Text)
	if err != nil {
		return failedResult(base, fmt.Sprintf("write transcript: %v", err)), nil
	}
	return model.ProcessingResult{
		ItemID:     base,
		Success:    true,
		Method:     outcome.Method,
		OutputFile: path,
	}, nil
}

// prepareAudio stands in for the network download step: video files get
// their audio track extracted, audio files pass through untouched.
func (h *LocalFileHandler) prepareAudio(path, workDir, _ string) (string, error) {
	if tools.IsSupportedVideo(path) {
		return h.extract(path, workDir)
	}
	if tools.IsSupportedAudio(path) {
		return path, nil
	}
	return "", errclass.Validation("local.prepare", fmt.Sprintf("unsupported media file: %s", path))
}
