package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readvideo/internal/errclass"
)

const whisperBin = "whisper-cli"

// Whisper runs local speech-to-text over a prepared WAV file.
type Whisper struct {
	ModelPath string
}

// Transcribe runs whisper-cli and returns the transcript text plus the
// path of the .txt file it produced. An empty language enables
// auto-detection.
func (w Whisper) Transcribe(wavFile, language, outputDir string) (string, string, error) {
	model := expandHome(w.ModelPath)
	if _, err := os.Stat(model); err != nil {
		return "", "", errclass.Processing(whisperBin, fmt.Errorf("whisper model not found: %s", model))
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(wavFile), filepath.Ext(wavFile))
	outBase := filepath.Join(outputDir, base)
	args := []string{
		"-m", model,
		"-f", wavFile,
		"-otxt",
		"-of", outBase,
	}
	if strings.TrimSpace(language) != "" {
		args = append(args, "-l", language)
	} else {
		args = append(args, "-l", "auto")
	}

	if _, err := run(whisperBin, args...); err != nil {
		return "", "", err
	}

	outputFile := outBase + ".txt"
	data, err := os.ReadFile(outputFile)
	if err != nil {
		return "", "", errclass.Processing(whisperBin, fmt.Errorf("transcription finished but %s is missing: %w", outputFile, err))
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", "", errclass.Processing(whisperBin, fmt.Errorf("transcription produced no text for %s", wavFile))
	}
	return text, outputFile, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
