package platform

import (
	"fmt"
	"os"

	"readvideo/internal/acquire"
	"readvideo/internal/config"
	"readvideo/internal/fetch"
	"readvideo/internal/model"
	"readvideo/internal/tools"
)

// YouTubeHandler processes YouTube videos with transcript priority:
// hosted subtitle sources first, audio transcription only when no
// published captions can be fetched.
type YouTubeHandler struct {
	chain       *acquire.Chain
	supadata    *fetch.SupadataClient
	transcripts *fetch.YouTubeTranscriptClient
	proxy       string

	download   func(videoURL, outputDir, proxy string) (string, error)
	convert    func(inputFile, outputDir string) (string, error)
	transcribe func(wavFile, language, outputDir string) (string, string, error)
	probe      func(videoURL, proxy string) (model.Metadata, error)
}

func NewYouTubeHandler(cfg config.Config) *YouTubeHandler {
	h := &YouTubeHandler{
		chain:       acquire.NewChain(cfg.MaxRetries, cfg.RetryBaseDelay),
		transcripts: fetch.NewYouTubeTranscriptClient(cfg.Languages),
		proxy:       cfg.ProxyURL,
		download:    tools.DownloadAudio,
		convert:     tools.ConvertToWAV,
		transcribe:  tools.Whisper{ModelPath: cfg.WhisperModelPath}.Transcribe,
		probe:       tools.ProbeInfo,
	}
	if len(cfg.Supadata.APIKeys) > 0 {
		h.supadata = fetch.NewSupadataClient(cfg.Supadata.BaseURL, cfg.Supadata.APIKeys, cfg.Supadata.Rotation)
	}
	return h
}

func (h *YouTubeHandler) Name() string { return "youtube" }

func (h *YouTubeHandler) ValidateInput(raw string) bool {
	return fetch.IsYouTubeURL(raw)
}

func (h *YouTubeHandler) Describe(raw string) (model.Metadata, error) {
	if !h.ValidateInput(raw) {
		return model.Metadata{}, fmt.Errorf("invalid YouTube URL: %s", raw)
	}
	meta, err := h.probe(raw, h.proxy)
	if err != nil {
		// Identity is still known from the URL itself.
		return model.Metadata{ID: fetch.ExtractVideoID(raw), Platform: "youtube", URL: raw}, nil
	}
	meta.Platform = "youtube"
	return meta, nil
}

func (h *YouTubeHandler) Process(raw, outputDir string, opts Options) (model.ProcessingResult, error) {
	if !h.ValidateInput(raw) {
		return failedResult("", "invalid YouTube URL: "+raw), nil
	}
	id := fetch.ExtractVideoID(raw)
	item := model.ContentItem{ID: id, URL: raw}
	if h.probe != nil {
		if meta, err := h.probe(raw, h.proxy); err == nil {
			item.Title = meta.Title
		}
	}
	return h.ProcessItem(item, outputDir, opts)
}

// ProcessItem runs the acquisition chain for an already-enumerated item.
// The work directory for audio intermediates is released on every exit
// path unless the caller asked to keep temp files.
func (h *YouTubeHandler) ProcessItem(item model.ContentItem, outputDir string, opts Options) (model.ProcessingResult, error) {
	workDir, err := os.MkdirTemp("", "readvideo-work-*")
	if err != nil {
		return failedResult(item.ID, fmt.Sprintf("create work dir: %v", err)), nil
	}
	if !opts.KeepTempFiles {
		defer os.RemoveAll(workDir)
	}

	outcome, err := h.chain.Acquire(item, workDir, h.strategies(opts))
	if err != nil {
		return model.ProcessingResult{ItemID: item.ID}, err
	}
	if !outcome.Success {
		return failedResult(item.ID, outcome.Err.Error()), nil
	}

	title := item.Title
	if title == "" {
		title = item.ID
	}
	path, err := writeTranscript(outputDir, title, item.ID, outcome.Text)
	if err != nil {
		return failedResult(item.ID, fmt.Sprintf("write transcript: %v", err)), nil
	}
	return model.ProcessingResult{
		ItemID:     item.ID,
		Success:    true,
		Method:     outcome.Method,
		OutputFile: path,
	}, nil
}

func (h *YouTubeHandler) strategies(opts Options) []acquire.Strategy {
	out := make([]acquire.Strategy, 0, 3)
	if h.supadata != nil {
		out = append(out, supadataStrategy{client: h.supadata})
	}
	if h.transcripts != nil {
		out = append(out, transcriptAPIStrategy{client: h.transcripts})
	}
	out = append(out, transcriptionStrategy{
		language:   opts.Language,
		proxy:      h.proxy,
		download:   h.download,
		convert:    h.convert,
		transcribe: h.transcribe,
	})
	return out
}
