package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readvideo/internal/errclass"
)

const bbdownBin = "BBDown"

var audioExtensions = map[string]bool{
	".m4a": true, ".mp3": true, ".aac": true, ".flac": true, ".wav": true, ".ogg": true,
}

// DownloadBilibiliAudio fetches the audio track of one Bilibili video.
// BBDown is preferred; when it is missing or fails, yt-dlp takes over.
func DownloadBilibiliAudio(videoURL, outputDir, proxy string) (string, error) {
	if _, ok := lookPath(bbdownBin); ok {
		path, err := downloadWithBBDown(videoURL, outputDir)
		if err == nil {
			return path, nil
		}
		cleanupBBDownResiduals(outputDir)
		if _, ytOK := lookPath(ytdlpBin); !ytOK {
			return "", err
		}
	} else if _, ytOK := lookPath(ytdlpBin); !ytOK {
		return "", errclass.Processing(bbdownBin, fmt.Errorf("neither BBDown nor yt-dlp found on PATH"))
	}
	return DownloadAudio(videoURL, outputDir, proxy)
}

func downloadWithBBDown(videoURL, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	args := []string{
		"--audio-only",
		"--work-dir", outputDir,
		videoURL,
	}
	if _, err := run(bbdownBin, args...); err != nil {
		return "", err
	}
	path, err := findAudioFile(outputDir)
	if err != nil {
		return "", errclass.Processing(bbdownBin, fmt.Errorf("no audio file found after BBDown download: %w", err))
	}
	return path, nil
}

// findAudioFile walks outputDir because BBDown nests downloads in
// per-title subdirectories; the largest candidate wins since BBDown can
// leave tiny partial segments behind.
func findAudioFile(root string) (string, error) {
	var best string
	var bestSize int64
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > bestSize {
			best = path
			bestSize = info.Size()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no audio file under %s", root)
	}
	return best, nil
}

func cleanupBBDownResiduals(outputDir string) {
	for _, name := range []string{"temp", ".temp"} {
		_ = os.RemoveAll(filepath.Join(outputDir, name))
	}
}
