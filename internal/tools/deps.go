package tools

import "fmt"

// DependencyReport lists the external binaries the acquisition paths
// shell out to and where they were found.
type DependencyReport struct {
	YTDLPFound   bool   `json:"yt_dlp_found"`
	YTDLPPath    string `json:"yt_dlp_path,omitempty"`
	FFmpegFound  bool   `json:"ffmpeg_found"`
	FFmpegPath   string `json:"ffmpeg_path,omitempty"`
	WhisperFound bool   `json:"whisper_cli_found"`
	WhisperPath  string `json:"whisper_cli_path,omitempty"`
	BBDownFound  bool   `json:"bbdown_found"`
	BBDownPath   string `json:"bbdown_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, ok := lookPath(ytdlpBin); ok {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	if path, ok := lookPath(ffmpegBin); ok {
		report.FFmpegFound = true
		report.FFmpegPath = path
	}
	if path, ok := lookPath(whisperBin); ok {
		report.WhisperFound = true
		report.WhisperPath = path
	}
	if path, ok := lookPath(bbdownBin); ok {
		report.BBDownFound = true
		report.BBDownPath = path
	}
	return report
}

// CheckCore verifies the binaries every acquisition path needs. BBDown
// and whisper-cli are optional until a chain actually reaches them.
func CheckCore() error {
	report := DependencyStatus()
	if !report.YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	if !report.FFmpegFound {
		return fmt.Errorf("missing dependency: ffmpeg is required for audio conversion and was not found on PATH")
	}
	return nil
}
