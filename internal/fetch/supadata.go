// Package fetch holds the hosted subtitle-source clients. These are the
// cheap acquisition paths tried before any audio is downloaded.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"readvideo/internal/errclass"
)

const supadataOp = "supadata"

// SupadataClient fetches transcripts from the Supadata API, rotating
// across the configured keys. Per-key 401/429 responses advance to the
// next key; a 404 means the video has no transcript and no other key can
// change that.
type SupadataClient struct {
	BaseURL  string
	APIKeys  []string
	Rotation string // round_robin | random

	HTTPClient *http.Client
	nextKey    int
}

func NewSupadataClient(baseURL string, apiKeys []string, rotation string) *SupadataClient {
	return &SupadataClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKeys:    apiKeys,
		Rotation:   rotation,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type supadataResponse struct {
	Lang    string `json:"lang"`
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// FetchTranscript returns the transcript text for videoURL, trying every
// configured key before giving up.
func (c *SupadataClient) FetchTranscript(videoURL string) (string, error) {
	if len(c.APIKeys) == 0 {
		return "", errclass.Configuration(supadataOp, "no API keys configured")
	}

	keys := c.keyOrder()
	var lastErr error
	for _, key := range keys {
		text, err := c.fetchWithKey(key, videoURL)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !keyRotatable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("all %d supadata keys failed: %w", len(keys), lastErr)
}

func (c *SupadataClient) fetchWithKey(key, videoURL string) (string, error) {
	endpoint := c.BaseURL + "/transcript?" + url.Values{"url": {videoURL}}.Encode()
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errclass.Wrap(errclass.KindValidation, supadataOp, err)
	}
	req.Header.Set("x-api-key", key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", errclass.Network(supadataOp, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", errclass.AccessBlocked(supadataOp, "invalid API key ..."+keySuffix(key))
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errclass.Network(supadataOp, fmt.Errorf("rate limit exceeded for key ...%s", keySuffix(key)))
	case resp.StatusCode == http.StatusNotFound:
		return "", errclass.Processing(supadataOp, fmt.Errorf("video not found or transcript not available"))
	case resp.StatusCode >= 500:
		return "", errclass.Network(supadataOp, fmt.Errorf("HTTP %d from supadata", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", errclass.Processing(supadataOp, fmt.Errorf("HTTP %d from supadata", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", errclass.Network(supadataOp, err)
	}
	var parsed supadataResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errclass.Processing(supadataOp, fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Content) == 0 {
		return "", errclass.Processing(supadataOp, fmt.Errorf("no transcript content in response"))
	}

	segments := make([]string, 0, len(parsed.Content))
	for _, seg := range parsed.Content {
		if t := strings.TrimSpace(seg.Text); t != "" {
			segments = append(segments, t)
		}
	}
	return strings.Join(segments, " "), nil
}

// keyOrder applies the rotation policy: round_robin walks all keys
// starting at the cursor, random shuffles the full list.
func (c *SupadataClient) keyOrder() []string {
	keys := append([]string(nil), c.APIKeys...)
	if c.Rotation == "random" {
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		return keys
	}
	start := c.nextKey % len(keys)
	c.nextKey = (c.nextKey + 1) % len(keys)
	return append(keys[start:], keys[:start]...)
}

// keyRotatable reports whether trying another key could help: bad or
// rate-limited keys rotate, a missing transcript does not.
func keyRotatable(err error) bool {
	switch errclass.KindOf(err) {
	case errclass.KindAccessBlocked, errclass.KindNetwork:
		return true
	default:
		return false
	}
}

func keySuffix(key string) string {
	if len(key) > 8 {
		return key[len(key)-8:]
	}
	return key
}
