package model

// ContentItem is one unit of acquirable content from a catalog. Immutable
// once enumerated.
type ContentItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	UploadDate  string `json:"upload_date,omitempty"` // YYYY-MM-DD
	DurationSec int    `json:"duration_sec,omitempty"`
}

// Metadata is the cheap describe() result for a single input: identity
// without full acquisition.
type Metadata struct {
	ID            string   `json:"id"`
	Title         string   `json:"title,omitempty"`
	Platform      string   `json:"platform"`
	URL           string   `json:"url,omitempty"`
	DurationSec   int      `json:"duration_sec,omitempty"`
	HasSubtitles  bool     `json:"has_subtitles,omitempty"`
	SubtitleLangs []string `json:"subtitle_langs,omitempty"`
}

// ProcessingResult is the terminal outcome for one item after the full
// acquisition chain has run. Partial failure is a normal value here, not
// an error.
type ProcessingResult struct {
	ItemID     string `json:"item_id"`
	Success    bool   `json:"success"`
	Method     string `json:"method,omitempty"` // subtitle source name or "transcription"
	OutputFile string `json:"output_file,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TargetInfo identifies one batch target (a channel or user account).
type TargetInfo struct {
	Platform    string `json:"platform"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// CatalogSnapshot is the point-in-time record of a target's enumerated
// items, written once per enumeration and never re-validated on resume.
type CatalogSnapshot struct {
	Target      TargetInfo    `json:"target"`
	TotalItems  int           `json:"total_items"`
	Items       []ContentItem `json:"items"`
	GeneratedAt string        `json:"generated_at"`
}

// BatchSummary is written once when a batch run finishes.
type BatchSummary struct {
	RunID      string             `json:"run_id"`
	Target     TargetInfo         `json:"target"`
	Requested  int                `json:"requested"`
	Processed  int                `json:"processed"`
	Completed  int                `json:"completed"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	Results    []ProcessingResult `json:"results"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
}
