package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readvideo/internal/errclass"
)

const ffmpegBin = "ffmpeg"

// SupportedAudioExtensions and SupportedVideoExtensions define what the
// local-file handler accepts.
var (
	SupportedAudioExtensions = []string{"mp3", "m4a", "wav", "flac", "ogg", "aac", "wma"}
	SupportedVideoExtensions = []string{"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v"}
)

func IsSupportedAudio(path string) bool {
	return hasExt(path, SupportedAudioExtensions)
}

func IsSupportedVideo(path string) bool {
	return hasExt(path, SupportedVideoExtensions)
}

func hasExt(path string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// ConvertToWAV renders any supported input into the 16 kHz mono WAV that
// whisper-cli expects, writing next to outputDir.
func ConvertToWAV(inputFile, outputDir string) (string, error) {
	if _, err := os.Stat(inputFile); err != nil {
		return "", errclass.Validation(ffmpegBin, "input file not found: "+inputFile)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	outputFile := filepath.Join(outputDir, base+".wav")

	args := []string{
		"-i", inputFile,
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputFile,
	}
	if _, err := run(ffmpegBin, args...); err != nil {
		return "", err
	}
	if _, err := os.Stat(outputFile); err != nil {
		return "", errclass.Processing(ffmpegBin, fmt.Errorf("conversion finished but %s is missing", outputFile))
	}
	return outputFile, nil
}

// ExtractAudio copies the audio track out of a video container without
// re-encoding.
func ExtractAudio(videoFile, outputDir string) (string, error) {
	if !IsSupportedVideo(videoFile) {
		return "", errclass.Validation(ffmpegBin, "not a supported video format: "+videoFile)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(videoFile), filepath.Ext(videoFile))
	outputFile := filepath.Join(outputDir, base+"_audio.m4a")

	args := []string{
		"-i", videoFile,
		"-vn",
		"-acodec", "copy",
		"-y",
		outputFile,
	}
	if _, err := run(ffmpegBin, args...); err != nil {
		return "", err
	}
	return outputFile, nil
}
