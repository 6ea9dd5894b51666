// Package targets resolves user-supplied channel/user references into
// canonical batch targets and their on-disk directory names.
package targets

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"readvideo/internal/model"
)

var (
	youtubeURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/@([^/?#]+)`),
		regexp.MustCompile(`youtube\.com/channel/([^/?#]+)`),
		regexp.MustCompile(`youtube\.com/c/([^/?#]+)`),
		regexp.MustCompile(`youtube\.com/user/([^/?#]+)`),
	}
	plainNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	bilibiliUIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`space\.bilibili\.com/(\d+)`),
		regexp.MustCompile(`bilibili\.com/(\d+)`),
		regexp.MustCompile(`^(\d+)$`),
	}

	unsafeDirChars = regexp.MustCompile(`[^\w.@-]`)
)

// ParseYouTubeChannel accepts @handle, bare handle, or any of the usual
// channel URL shapes and returns a canonical target pointing at the
// channel's videos tab.
func ParseYouTubeChannel(raw string) (model.TargetInfo, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return model.TargetInfo{}, fmt.Errorf("channel is required")
	}

	if strings.HasPrefix(input, "@") {
		if !plainNamePattern.MatchString(input[1:]) {
			return model.TargetInfo{}, fmt.Errorf("invalid channel handle: %s", input)
		}
		return youtubeTarget(input, "https://www.youtube.com/"+input+"/videos"), nil
	}

	if strings.Contains(input, "youtube.com") {
		for _, p := range youtubeURLPatterns {
			m := p.FindStringSubmatch(input)
			if m == nil {
				continue
			}
			id := m[1]
			switch {
			case strings.Contains(p.String(), "/@"):
				return youtubeTarget("@"+id, "https://www.youtube.com/@"+id+"/videos"), nil
			case strings.Contains(p.String(), "/channel/"):
				return youtubeTarget(id, "https://www.youtube.com/channel/"+id+"/videos"), nil
			default:
				return youtubeTarget(id, "https://www.youtube.com/c/"+id+"/videos"), nil
			}
		}
		return model.TargetInfo{}, fmt.Errorf("unrecognized youtube channel URL: %s", input)
	}

	if plainNamePattern.MatchString(input) {
		handle := "@" + input
		return youtubeTarget(handle, "https://www.youtube.com/"+handle+"/videos"), nil
	}

	return model.TargetInfo{}, fmt.Errorf("cannot extract channel from: %s", input)
}

// ParseBilibiliUser accepts a numeric UID or a space URL.
func ParseBilibiliUser(raw string) (model.TargetInfo, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return model.TargetInfo{}, fmt.Errorf("user is required")
	}
	for _, p := range bilibiliUIDPatterns {
		if m := p.FindStringSubmatch(input); m != nil {
			uid := m[1]
			return model.TargetInfo{
				Platform:    "bilibili",
				Identifier:  uid,
				DisplayName: "UID" + uid,
				URL:         "https://space.bilibili.com/" + uid,
			}, nil
		}
	}
	return model.TargetInfo{}, fmt.Errorf("cannot extract bilibili UID from: %s", input)
}

// Dir returns the per-target output directory under outputDir, e.g.
// youtube_@somechannel or bilibili_12345.
func Dir(outputDir string, target model.TargetInfo) string {
	safe := unsafeDirChars.ReplaceAllString(target.DisplayName, "_")
	if safe == "" {
		safe = unsafeDirChars.ReplaceAllString(target.Identifier, "_")
	}
	return filepath.Join(outputDir, target.Platform+"_"+safe)
}

func youtubeTarget(identifier, url string) model.TargetInfo {
	return model.TargetInfo{
		Platform:    "youtube",
		Identifier:  identifier,
		DisplayName: identifier,
		URL:         url,
	}
}
