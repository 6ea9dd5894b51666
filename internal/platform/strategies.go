package platform

import (
	"readvideo/internal/fetch"
	"readvideo/internal/model"
)

// The concrete strategies bridge the acquisition chain to the external
// collaborators. Ordering is decided by the handlers: hosted subtitle
// sources are 10-100x cheaper than downloading and transcribing audio,
// so they always come first.

type supadataStrategy struct {
	client *fetch.SupadataClient
}

func (s supadataStrategy) Name() string { return "supadata" }

func (s supadataStrategy) Fetch(item model.ContentItem, _ string) (string, error) {
	return s.client.FetchTranscript(item.URL)
}

type transcriptAPIStrategy struct {
	client *fetch.YouTubeTranscriptClient
}

func (s transcriptAPIStrategy) Name() string { return "transcript-api" }

func (s transcriptAPIStrategy) Fetch(item model.ContentItem, _ string) (string, error) {
	return s.client.FetchTranscript(item.URL)
}

// transcriptionStrategy is the expensive fallback: download audio,
// convert it for whisper, transcribe. The tool functions are fields so
// tests can run the strategy without external binaries.
type transcriptionStrategy struct {
	language string
	proxy    string

	download   func(videoURL, outputDir, proxy string) (string, error)
	convert    func(inputFile, outputDir string) (string, error)
	transcribe func(wavFile, language, outputDir string) (string, string, error)
}

func (s transcriptionStrategy) Name() string { return "transcription" }

func (s transcriptionStrategy) Fetch(item model.ContentItem, workDir string) (string, error) {
	audioFile, err := s.download(item.URL, workDir, s.proxy)
	if err != nil {
		return "", err
	}
	wavFile, err := s.convert(audioFile, workDir)
	if err != nil {
		return "", err
	}
	text, _, err := s.transcribe(wavFile, s.language, workDir)
	if err != nil {
		return "", err
	}
	return text, nil
}
