package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"readvideo/internal/store"
)

const maxTitleLength = 100

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	controlChars        = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// sanitizeTitle makes a video title safe as a filename component.
func sanitizeTitle(title string) string {
	safe := unsafeFilenameChars.ReplaceAllString(title, "_")
	safe = controlChars.ReplaceAllString(safe, "")
	safe = strings.Trim(safe, " .")
	if runes := []rune(safe); len(runes) > maxTitleLength {
		safe = strings.TrimRight(string(runes[:maxTitleLength]), " .")
	}
	if safe == "" {
		safe = "untitled"
	}
	return safe
}

// writeTranscript persists transcript text as "<title> [<id>].txt" under
// outputDir, using the store's atomic write so interrupted runs never
// leave half a transcript.
func writeTranscript(outputDir, title, id, text string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s [%s].txt", sanitizeTitle(title), id)
	path := filepath.Join(outputDir, name)
	if err := store.WriteBytes(path, []byte(text+"\n")); err != nil {
		return "", err
	}
	return path, nil
}
