package targets

import (
	"path/filepath"
	"testing"
)

func TestParseYouTubeChannel(t *testing.T) {
	cases := []struct {
		in             string
		wantIdentifier string
		wantURL        string
	}{
		{"@somechannel", "@somechannel", "https://www.youtube.com/@somechannel/videos"},
		{"somechannel", "@somechannel", "https://www.youtube.com/@somechannel/videos"},
		{"https://www.youtube.com/@handle/videos", "@handle", "https://www.youtube.com/@handle/videos"},
		{"https://youtube.com/channel/UCabc123", "UCabc123", "https://www.youtube.com/channel/UCabc123/videos"},
		{"https://www.youtube.com/c/SomeName", "SomeName", "https://www.youtube.com/c/SomeName/videos"},
		{"https://www.youtube.com/user/olduser", "olduser", "https://www.youtube.com/c/olduser/videos"},
	}
	for _, tc := range cases {
		got, err := ParseYouTubeChannel(tc.in)
		if err != nil {
			t.Fatalf("ParseYouTubeChannel(%q): %v", tc.in, err)
		}
		if got.Identifier != tc.wantIdentifier || got.URL != tc.wantURL {
			t.Fatalf("ParseYouTubeChannel(%q) = %+v", tc.in, got)
		}
		if got.Platform != "youtube" {
			t.Fatalf("expected youtube platform, got %q", got.Platform)
		}
	}
}

func TestParseYouTubeChannel_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "https://youtube.com/watch?v=abc", "not a channel!"} {
		if _, err := ParseYouTubeChannel(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseBilibiliUser(t *testing.T) {
	cases := []struct {
		in      string
		wantUID string
	}{
		{"12345", "12345"},
		{"https://space.bilibili.com/12345", "12345"},
		{"https://space.bilibili.com/12345?spm_id=x", "12345"},
	}
	for _, tc := range cases {
		got, err := ParseBilibiliUser(tc.in)
		if err != nil {
			t.Fatalf("ParseBilibiliUser(%q): %v", tc.in, err)
		}
		if got.Identifier != tc.wantUID || got.Platform != "bilibili" {
			t.Fatalf("ParseBilibiliUser(%q) = %+v", tc.in, got)
		}
	}
	if _, err := ParseBilibiliUser("not-a-user"); err == nil {
		t.Fatalf("expected error for junk input")
	}
}

func TestParseYouTubeChannel_RejectsUnsafeHandle(t *testing.T) {
	if _, err := ParseYouTubeChannel("@some channel/odd"); err == nil {
		t.Fatalf("expected error for handle with spaces")
	}
}

func TestDir_SanitizesName(t *testing.T) {
	target, err := ParseYouTubeChannel("@handle")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := Dir("/out", target)
	want := filepath.Join("/out", "youtube_@handle")
	if got != want {
		t.Fatalf("Dir = %q, want %q", got, want)
	}

	odd := target
	odd.DisplayName = "weird name/слэш"
	if sanitized := Dir("/out", odd); sanitized == filepath.Join("/out", "youtube_weird name/слэш") {
		t.Fatalf("expected unsafe characters to be replaced, got %q", sanitized)
	}
}
