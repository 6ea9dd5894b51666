package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"readvideo/internal/errclass"
	"readvideo/internal/model"
)

const ytdlpBin = "yt-dlp"

// catalogPrintTemplate keeps enumeration to one cheap flat-playlist pass;
// fields the flat extractor cannot fill come back as "NA".
const catalogPrintTemplate = "%(id)s|%(title)s|%(upload_date)s|%(duration)s"

// ListCatalog enumerates a channel/user/playlist URL into content items,
// in the order the source returns them.
func ListCatalog(sourceURL, proxy string) ([]model.ContentItem, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, errclass.Validation(ytdlpBin, "source URL is required")
	}
	args := []string{
		"--flat-playlist",
		"--quiet",
		"--no-warnings",
		"--print", catalogPrintTemplate,
	}
	if strings.TrimSpace(proxy) != "" {
		args = append(args, "--proxy", strings.TrimSpace(proxy))
	}
	args = append(args, sourceURL)

	out, err := run(ytdlpBin, args...)
	if err != nil {
		return nil, err
	}
	return ParseCatalogOutput(string(out)), nil
}

// ParseCatalogOutput parses the --print lines produced by ListCatalog.
// Malformed lines are dropped rather than failing the whole listing.
func ParseCatalogOutput(out string) []model.ContentItem {
	items := make([]model.ContentItem, 0)
	for _, line := range strings.Split(out, "\n") {
		if item, ok := parseCatalogLine(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseCatalogLine(line string) (model.ContentItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.ContentItem{}, false
	}
	parts := strings.SplitN(line, "|", 4)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return model.ContentItem{}, false
	}
	// URL stays empty here: the ID is platform-relative and the batch
	// layer knows which site the listing came from.
	item := model.ContentItem{
		ID:    strings.TrimSpace(parts[0]),
		Title: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		item.UploadDate = FormatUploadDate(parts[2])
	}
	if len(parts) > 3 {
		item.DurationSec = parseDuration(parts[3])
	}
	return item, true
}

// FormatUploadDate converts yt-dlp's YYYYMMDD into YYYY-MM-DD; values it
// cannot interpret (including "NA") come back empty.
func FormatUploadDate(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) != 8 {
		return ""
	}
	if _, err := strconv.Atoi(v); err != nil {
		return ""
	}
	return v[:4] + "-" + v[4:6] + "-" + v[6:8]
}

func parseDuration(raw string) int {
	v := strings.TrimSpace(raw)
	if v == "" || v == "NA" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// DownloadAudio extracts the audio track of one video into outputDir as
// <id>.m4a and returns the file path.
func DownloadAudio(videoURL, outputDir, proxy string) (string, error) {
	if strings.TrimSpace(videoURL) == "" {
		return "", errclass.Validation(ytdlpBin, "video URL is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	args := []string{
		"-x",
		"--audio-format", "m4a",
		"--force-overwrites",
		"--no-playlist",
		"-P", outputDir,
		"-o", "%(id)s.%(ext)s",
	}
	if strings.TrimSpace(proxy) != "" {
		args = append(args, "--proxy", strings.TrimSpace(proxy))
	}
	args = append(args, videoURL)

	if _, err := run(ytdlpBin, args...); err != nil {
		return "", err
	}
	path, err := newestFileWithExt(outputDir, ".m4a")
	if err != nil {
		return "", errclass.Processing(ytdlpBin, fmt.Errorf("no audio file found after download: %w", err))
	}
	return path, nil
}

type probeInfo struct {
	ID        string                     `json:"id"`
	Title     string                     `json:"title"`
	Duration  float64                    `json:"duration"`
	Subtitles map[string]json.RawMessage `json:"subtitles"`
}

// ProbeInfo fetches title, duration, and published subtitle languages for
// a single video without downloading anything.
func ProbeInfo(videoURL, proxy string) (model.Metadata, error) {
	args := []string{"--dump-json", "--no-download", "--no-playlist"}
	if strings.TrimSpace(proxy) != "" {
		args = append(args, "--proxy", strings.TrimSpace(proxy))
	}
	args = append(args, videoURL)

	out, err := run(ytdlpBin, args...)
	if err != nil {
		return model.Metadata{}, err
	}
	return ParseProbeOutput(out, videoURL)
}

// ParseProbeOutput decodes a --dump-json document. Auto-generated
// captions live under a separate key and deliberately do not count as
// subtitles here.
func ParseProbeOutput(out []byte, videoURL string) (model.Metadata, error) {
	var info probeInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return model.Metadata{}, errclass.Processing(ytdlpBin, fmt.Errorf("decode metadata: %w", err))
	}
	langs := make([]string, 0, len(info.Subtitles))
	for lang := range info.Subtitles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return model.Metadata{
		ID:            info.ID,
		Title:         info.Title,
		URL:           videoURL,
		DurationSec:   int(info.Duration),
		HasSubtitles:  len(langs) > 0,
		SubtitleLangs: langs,
	}, nil
}

func newestFileWithExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = e.Name()
			newestMod = mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s file in %s", ext, dir)
	}
	return filepath.Join(dir, newest), nil
}
