package fetch

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"readvideo/internal/errclass"
)

const transcriptOp = "transcript-api"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/.*[?&]v=([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of the usual
// YouTube URL shapes.
func ExtractVideoID(rawURL string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// IsYouTubeURL reports whether raw looks like a YouTube video URL.
func IsYouTubeURL(raw string) bool {
	return ExtractVideoID(raw) != ""
}

// YouTubeTranscriptClient fetches published caption tracks straight from
// the watch page, preferring manually-created tracks in the configured
// language order over auto-generated ones.
type YouTubeTranscriptClient struct {
	Languages  []string
	HTTPClient *http.Client

	// fetchURL maps a video ID to its watch page; replaced in tests.
	fetchURL func(videoID string) string
}

func NewYouTubeTranscriptClient(languages []string) *YouTubeTranscriptClient {
	return &YouTubeTranscriptClient{
		Languages:  languages,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		fetchURL: func(videoID string) string {
			return "https://www.youtube.com/watch?v=" + videoID
		},
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind,omitempty"` // "asr" for auto-generated
}

// FetchTranscript returns the best available caption track as plain text.
func (c *YouTubeTranscriptClient) FetchTranscript(videoURL string) (string, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return "", errclass.Validation(transcriptOp, "not a YouTube video URL: "+videoURL)
	}

	page, err := c.get(c.fetchURL(videoID))
	if err != nil {
		return "", err
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", err
	}
	track := pickTrack(tracks, c.Languages)
	if track == nil {
		return "", errclass.Processing(transcriptOp, fmt.Errorf("no caption track in preferred languages for %s", videoID))
	}

	body, err := c.get(track.BaseURL)
	if err != nil {
		return "", err
	}
	text, err := parseTimedText(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errclass.Processing(transcriptOp, fmt.Errorf("empty caption track for %s", videoID))
	}
	return text, nil
}

func (c *YouTubeTranscriptClient) get(url string) ([]byte, error) {
	resp, err := c.HTTPClient.Get(url)
	if err != nil {
		return nil, errclass.Network(transcriptOp, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errclass.Network(transcriptOp, fmt.Errorf("HTTP 429: too many requests"))
	case resp.StatusCode == http.StatusForbidden:
		return nil, errclass.AccessBlocked(transcriptOp, "HTTP 403: request blocked")
	case resp.StatusCode >= 500:
		return nil, errclass.Network(transcriptOp, fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, errclass.Processing(transcriptOp, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, errclass.Network(transcriptOp, err)
	}
	return body, nil
}

var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	text := string(page)
	if strings.Contains(text, "class=\"g-recaptcha\"") {
		return nil, errclass.AccessBlocked(transcriptOp, "request flagged by captcha; IP may be blocked")
	}
	m := captionTracksPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, errclass.Processing(transcriptOp, fmt.Errorf("no caption tracks on watch page"))
	}
	var tracks []captionTrack
	if err := json.Unmarshal([]byte(m[1]), &tracks); err != nil {
		return nil, errclass.Processing(transcriptOp, fmt.Errorf("decode caption tracks: %w", err))
	}
	if len(tracks) == 0 {
		return nil, errclass.Processing(transcriptOp, fmt.Errorf("no caption tracks on watch page"))
	}
	return tracks, nil
}

// pickTrack walks the language preference twice: manual tracks first,
// then auto-generated. A track in a preferred language always beats any
// track outside the preference list.
func pickTrack(tracks []captionTrack, languages []string) *captionTrack {
	manualOnly := func(t captionTrack) bool { return t.Kind != "asr" }
	anyKind := func(t captionTrack) bool { return true }

	for _, accept := range []func(captionTrack) bool{manualOnly, anyKind} {
		for _, lang := range languages {
			for i := range tracks {
				if tracks[i].LanguageCode == lang && accept(tracks[i]) {
					return &tracks[i]
				}
			}
		}
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", errclass.Processing(transcriptOp, fmt.Errorf("decode timedtext: %w", err))
	}
	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		v := strings.TrimSpace(html.UnescapeString(t.Value))
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " "), nil
}
