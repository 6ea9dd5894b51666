package platform

import (
	"fmt"
	"os"
	"regexp"

	"readvideo/internal/acquire"
	"readvideo/internal/config"
	"readvideo/internal/model"
	"readvideo/internal/tools"
)

var (
	bilibiliIDPattern   = regexp.MustCompile(`(BV[0-9A-Za-z]{10}|av\d+)`)
	bilibiliShortLinkRe = regexp.MustCompile(`b23\.tv/\w+`)
)

// BilibiliHandler processes Bilibili videos. There is no hosted subtitle
// source to try, so the chain is transcription only: download audio,
// convert, run whisper.
type BilibiliHandler struct {
	chain *acquire.Chain
	proxy string

	download   func(videoURL, outputDir, proxy string) (string, error)
	convert    func(inputFile, outputDir string) (string, error)
	transcribe func(wavFile, language, outputDir string) (string, string, error)
	probe      func(videoURL, proxy string) (model.Metadata, error)
}

func NewBilibiliHandler(cfg config.Config) *BilibiliHandler {
	return &BilibiliHandler{
		chain:      acquire.NewChain(cfg.MaxRetries, cfg.RetryBaseDelay),
		proxy:      cfg.ProxyURL,
		download:   tools.DownloadBilibiliAudio,
		convert:    tools.ConvertToWAV,
		transcribe: tools.Whisper{ModelPath: cfg.WhisperModelPath}.Transcribe,
		probe:      tools.ProbeInfo,
	}
}

func (h *BilibiliHandler) Name() string { return "bilibili" }

func (h *BilibiliHandler) ValidateInput(raw string) bool {
	if !isBilibiliInput(raw) {
		return false
	}
	// Short b23.tv links carry no visible ID; the downloader resolves
	// them. Full URLs must name a BV or av ID.
	if bilibiliIDPattern.MatchString(raw) {
		return true
	}
	return bilibiliShortLinkRe.MatchString(raw)
}

func (h *BilibiliHandler) Describe(raw string) (model.Metadata, error) {
	if !h.ValidateInput(raw) {
		return model.Metadata{}, fmt.Errorf("invalid Bilibili URL: %s", raw)
	}
	meta, err := h.probe(raw, h.proxy)
	if err != nil {
		return model.Metadata{ID: ExtractBilibiliID(raw), Platform: "bilibili", URL: raw}, nil
	}
	meta.Platform = "bilibili"
	return meta, nil
}

func (h *BilibiliHandler) Process(raw, outputDir string, opts Options) (model.ProcessingResult, error) {
	if !h.ValidateInput(raw) {
		return failedResult("", "invalid Bilibili URL: "+raw), nil
	}
	item := model.ContentItem{ID: ExtractBilibiliID(raw), URL: raw}
	if h.probe != nil {
		if meta, err := h.probe(raw, h.proxy); err == nil {
			item.Title = meta.Title
			if item.ID == "" {
				item.ID = meta.ID
			}
		}
	}
	return h.ProcessItem(item, outputDir, opts)
}

func (h *BilibiliHandler) ProcessItem(item model.ContentItem, outputDir string, opts Options) (model.ProcessingResult, error) {
	workDir, err := os.MkdirTemp("", "readvideo-work-*")
	if err != nil {
		return failedResult(item.ID, fmt.Sprintf("create work dir: %v", err)), nil
	}
	if !opts.KeepTempFiles {
		defer os.RemoveAll(workDir)
	}

	strategies := []acquire.Strategy{transcriptionStrategy{
		language:   opts.Language,
		proxy:      h.proxy,
		download:   h.download,
		convert:    h.convert,
		transcribe: h.transcribe,
	}}
	outcome, err := h.chain.Acquire(item, workDir, strategies)
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

// ExtractBilibiliID pulls the BV or av identifier out of a URL, or
// returns the empty string for short links that need resolution.
func ExtractBilibiliID(raw string) string {
	return bilibiliIDPattern.FindString(raw)
}
