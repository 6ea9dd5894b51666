package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"readvideo/internal/acquire"
	"readvideo/internal/errclass"
	"readvideo/internal/model"
)

func testChain() *acquire.Chain {
	c := acquire.NewChain(0, time.Millisecond)
	c.Sleep = func(time.Duration) {}
	return c
}

func TestDetect(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc12345678", "youtube"},
		{"https://youtu.be/abc12345678", "youtube"},
		{"https://www.bilibili.com/video/BV1xx411c7mD", "bilibili"},
		{"https://b23.tv/abc123", "bilibili"},
		{"/home/me/talk.m4a", "local"},
		{"notes.txt", "local"},
	}
	for _, tc := range cases {
		if got := Detect(tc.in); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{`Bad<>:"/\|?*Chars`, "Bad_________Chars"},
		{"  trailing dots... ", "trailing dots"},
		{"", "untitled"},
		{" .. ", "untitled"},
	}
	for _, tc := range cases {
		if got := sanitizeTitle(tc.in); got != tc.want {
			t.Fatalf("sanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	long := strings.Repeat("x", 150)
	if got := sanitizeTitle(long); len(got) != maxTitleLength {
		t.Fatalf("long title not capped: len=%d", len(got))
	}

	cjk := strings.Repeat("视", 150)
	got := sanitizeTitle(cjk)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxTitleLength {
		t.Fatalf("CJK title not capped at rune boundary: %d runes", n)
	}
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	path, err := writeTranscript(dir, "My Talk: Part 1", "vid123", "hello world")
	if err != nil {
		t.Fatalf("writeTranscript: %v", err)
	}
	if filepath.Base(path) != "My Talk_ Part 1 [vid123].txt" {
		t.Fatalf("unexpected filename %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "hello world\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestYouTubeHandler_ProcessItem_TranscriptionFallback(t *testing.T) {
	dir := t.TempDir()
	h := &YouTubeHandler{
		chain: testChain(),
		download: func(videoURL, outputDir, proxy string) (string, error) {
			return filepath.Join(outputDir, "audio.m4a"), nil
		},
		convert: func(inputFile, outputDir string) (string, error) {
			return filepath.Join(outputDir, "audio.wav"), nil
		},
		transcribe: func(wavFile, language, outputDir string) (string, string, error) {
			return "transcribed text", filepath.Join(outputDir, "audio.txt"), nil
		},
	}

	item := model.ContentItem{ID: "abc12345678", Title: "A Talk", URL: "https://youtu.be/abc12345678"}
	res, err := h.ProcessItem(item, dir, Options{})
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if !res.Success || res.Method != "transcription" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if filepath.Base(res.OutputFile) != "A Talk [abc12345678].txt" {
		t.Fatalf("unexpected output file %q", res.OutputFile)
	}
	if _, statErr := os.Stat(res.OutputFile); statErr != nil {
		t.Fatalf("transcript not written: %v", statErr)
	}
}

func TestYouTubeHandler_ProcessItem_FailureIsResultNotError(t *testing.T) {
	h := &YouTubeHandler{
		chain: testChain(),
		download: func(videoURL, outputDir, proxy string) (string, error) {
			return "", errclass.Processing("ytdlp.download", errors.New("yt-dlp exploded"))
		},
	}

	item := model.ContentItem{ID: "abc12345678", URL: "https://youtu.be/abc12345678"}
	res, err := h.ProcessItem(item, t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("non-fatal failure must not surface as error: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if !strings.Contains(res.Error, "yt-dlp exploded") {
		t.Fatalf("failure cause lost: %q", res.Error)
	}
}

func TestYouTubeHandler_Process_RejectsNonYouTubeInput(t *testing.T) {
	h := &YouTubeHandler{chain: testChain()}
	res, err := h.Process("https://example.com/video", t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("invalid input must not be an error: %v", err)
	}
	if res.Success || res.Error == "" {
		t.Fatalf("expected validation failure result, got %+v", res)
	}
}

func TestBilibiliHandler_ValidateInput(t *testing.T) {
	h := &BilibiliHandler{chain: testChain()}
	valid := []string{
		"https://www.bilibili.com/video/BV1xx411c7mD",
		"https://bilibili.com/video/av170001",
		"https://b23.tv/abc123",
	}
	for _, in := range valid {
		if !h.ValidateInput(in) {
			t.Fatalf("expected valid: %q", in)
		}
	}
	invalid := []string{
		"https://www.bilibili.com/",
		"https://youtube.com/watch?v=abc12345678",
		"BV1xx411c7mD",
	}
	for _, in := range invalid {
		if h.ValidateInput(in) {
			t.Fatalf("expected invalid: %q", in)
		}
	}
}

func TestExtractBilibiliID(t *testing.T) {
	if got := ExtractBilibiliID("https://www.bilibili.com/video/BV1xx411c7mD?p=2"); got != "BV1xx411c7mD" {
		t.Fatalf("BV extraction failed: %q", got)
	}
	if got := ExtractBilibiliID("https://bilibili.com/video/av170001"); got != "av170001" {
		t.Fatalf("av extraction failed: %q", got)
	}
	if got := ExtractBilibiliID("https://b23.tv/abc123"); got != "" {
		t.Fatalf("short link should yield no ID, got %q", got)
	}
}

func TestBilibiliHandler_ProcessItem(t *testing.T) {
	dir := t.TempDir()
	h := &BilibiliHandler{
		chain: testChain(),
		download: func(videoURL, outputDir, proxy string) (string, error) {
			return filepath.Join(outputDir, "audio.m4a"), nil
		},
		convert: func(inputFile, outputDir string) (string, error) {
			return filepath.Join(outputDir, "audio.wav"), nil
		},
		transcribe: func(wavFile, language, outputDir string) (string, string, error) {
			return "bilibili text", "", nil
		},
	}

	item := model.ContentItem{ID: "BV1xx411c7mD", Title: "弹幕视频", URL: "https://www.bilibili.com/video/BV1xx411c7mD"}
	res, err := h.ProcessItem(item, dir, Options{Language: "zh"})
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if !res.Success || res.Method != "transcription" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLocalFileHandler_AudioPassthrough(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "talk.m4a")
	if err := os.WriteFile(audio, []byte("fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	var extracted, converted string
	h := &LocalFileHandler{
		chain: testChain(),
		extract: func(videoFile, outputDir string) (string, error) {
			extracted = videoFile
			return filepath.Join(outputDir, "out.m4a"), nil
		},
		convert: func(inputFile, outputDir string) (string, error) {
			converted = inputFile
			return filepath.Join(outputDir, "out.wav"), nil
		},
		transcribe: func(wavFile, language, outputDir string) (string, string, error) {
			return "local transcript", "", nil
		},
	}

	res, err := h.Process(audio, dir, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Success || res.ItemID != "talk" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if extracted != "" {
		t.Fatalf("audio file must not go through extraction, got %q", extracted)
	}
	if converted != audio {
		t.Fatalf("audio file should convert directly, got %q", converted)
	}
}

func TestLocalFileHandler_VideoExtractsAudio(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(video, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	var extracted string
	h := &LocalFileHandler{
		chain: testChain(),
		extract: func(videoFile, outputDir string) (string, error) {
			extracted = videoFile
			return filepath.Join(outputDir, "clip.m4a"), nil
		},
		convert: func(inputFile, outputDir string) (string, error) {
			return filepath.Join(outputDir, "clip.wav"), nil
		},
		transcribe: func(wavFile, language, outputDir string) (string, string, error) {
			return "video transcript", "", nil
		},
	}

	res, err := h.Process(video, dir, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	if extracted != video {
		t.Fatalf("video should go through audio extraction, got %q", extracted)
	}
}

func TestLocalFileHandler_RejectsUnsupportedAndMissing(t *testing.T) {
	h := &LocalFileHandler{chain: testChain()}

	res, err := h.Process("notes.txt", t.TempDir(), Options{})
	if err != nil || res.Success {
		t.Fatalf("unsupported extension should fail as result: %+v err=%v", res, err)
	}

	res, err = h.Process(filepath.Join(t.TempDir(), "missing.m4a"), t.TempDir(), Options{})
	if err != nil || res.Success {
		t.Fatalf("missing file should fail as result: %+v err=%v", res, err)
	}
	if !strings.Contains(res.Error, "not readable") {
		t.Fatalf("missing file cause lost: %q", res.Error)
	}
}
