package service

import (
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{1,32})`)
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
)

// extractMentionHandles pulls @handle tokens out of content text, first
// occurrence wins, order preserved.
func extractMentionHandles(text string) []string {
	var handles []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		h := m[1]
		if !seen[h] {
			seen[h] = true
			handles = append(handles, h)
		}
	}
	return handles
}

// extractHashtags pulls #tag tokens, lowercased and deduplicated.
func extractHashtags(text string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		t := strings.ToLower(m[1])
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}
