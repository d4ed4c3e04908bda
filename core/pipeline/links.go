package pipeline

import (
	"regexp"
	"strings"

	"github.com/siherrmann/eventract/model"
)

// linkPattern is a meeting link shape to match, in priority order.
type linkPattern struct {
	regex *regexp.Regexp
	name  string
}

// providerPatterns match known video-conferencing URL shapes.
var providerPatterns = []*linkPattern{
	{
		regex: regexp.MustCompile(`https?://[\w.-]*zoom\.us/j/[\w?=&.\-]+`),
		name:  "zoom",
	},
	{
		regex: regexp.MustCompile(`https?://meet\.google\.com/[\w\-]+`),
		name:  "google_meet",
	},
	{
		regex: regexp.MustCompile(`https?://teams\.microsoft\.com/l/meetup-join/[^\s"'<>]+`),
		name:  "teams",
	},
	{
		regex: regexp.MustCompile(`https?://[\w.-]*webex\.com/(?:meet|join)/[^\s"'<>]+`),
		name:  "webex",
	},
	{
		regex: regexp.MustCompile(`https?://[\w.-]*gotomeeting\.com/join/[^\s"'<>]+`),
		name:  "gotomeeting",
	},
	{
		regex: regexp.MustCompile(`https?://whereby\.com/[^\s"'<>]+`),
		name:  "whereby",
	},
}

// genericLinkPattern matches any URL whose text carries join intent.
var genericLinkPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]*(?:meeting|join|conference)[^\s"'<>]*`)

// anchorLinkPattern matches HTML anchors whose target carries join intent.
var anchorLinkPattern = regexp.MustCompile(`(?i)<a[^>]+href=["']([^"']*(?:meeting|join|conference|zoom|meet\.google|teams\.microsoft)[^"']*)["']`)

// joinIntentPhrases signal that a link exists even when no URL was isolated.
var joinIntentPhrases = []string{
	"click here to join",
	"join the meeting",
	"join meeting",
	"link to join",
	"click to join",
}

// ScanMeetingLink pattern-matches a meeting link inside raw text.
// It tries, in order: provider-specific URL shapes, generic URLs with join
// intent, HTML anchor targets with join intent, and finally join-intent
// phrases. The first match wins. A phrase match without an isolatable URL
// returns model.MeetingLinkPending; no match at all returns the empty string.
// ScanMeetingLink never fails.
func ScanMeetingLink(text string) string {
	for _, pattern := range providerPatterns {
		if match := pattern.regex.FindString(text); match != "" {
			return strings.TrimRight(match, ".,;)")
		}
	}

	if match := genericLinkPattern.FindString(text); match != "" {
		return strings.TrimRight(match, ".,;)")
	}

	if groups := anchorLinkPattern.FindStringSubmatch(text); len(groups) > 1 {
		return groups[1]
	}

	lower := strings.ToLower(text)
	for _, phrase := range joinIntentPhrases {
		if strings.Contains(lower, phrase) {
			return model.MeetingLinkPending
		}
	}

	return ""
}
