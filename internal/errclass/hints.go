package errclass

import "strings"

// Hint matching covers errors coming back from external tools as plain
// text (yt-dlp, BBDown, ffmpeg stderr) where no structured kind exists.

var retryableHints = []string{
	"429",
	"too many requests",
	"rate limit",
	"timed out",
	"timeout",
	"temporarily unavailable",
	"connection reset",
	"service unavailable",
	"network is unreachable",
	"http error 5",
}

var accessBlockedHints = []string{
	"sign in to confirm",
	"ip has been blocked",
	"access denied",
	"http error 403",
	"private video",
	"members-only",
	"region",
}

var dependencyHints = []string{
	"ffmpeg could not be found",
	"ffprobe could not be found",
	"executable file not found",
	"not found. please install",
}

func matchesRetryableHint(s string) bool {
	return matchesAny(s, retryableHints)
}

// MatchesAccessBlockedHint reports whether raw tool output looks like a
// source-side restriction that must not be retried.
func MatchesAccessBlockedHint(s string) bool {
	return matchesAny(s, accessBlockedHints)
}

// MatchesDependencyHint reports whether raw tool output points at a
// missing external binary.
func MatchesDependencyHint(s string) bool {
	return matchesAny(s, dependencyHints)
}

func matchesAny(s string, hints []string) bool {
	text := strings.ToLower(s)
	for _, h := range hints {
		if strings.Contains(text, h) {
			return true
		}
	}
	return false
}
