package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// truncationMarker is appended to input that was cut to the configured
// bound, so downstream consumers can tell content is missing.
const truncationMarker = "\n...[content truncated]"

// TruncateInput bounds the raw text dispatched to the inference collaborator
// to control cost and latency. It reports whether anything was cut. The cut
// backs off to a rune boundary so a multi-byte character is never split.
func TruncateInput(text string, maxLength int) (string, bool) {
	if maxLength <= 0 || len(text) <= maxLength {
		return text, false
	}
	cut := maxLength
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut--
	}
	return text[:cut] + truncationMarker, true
}

// BuildPrompt composes the instruction payload for the inference
// collaborator. It grounds relative-date phrases by embedding today's,
// tomorrow's and the day after's dates in the caller's timezone, provides
// worked date/time conversion examples and pins the exact JSON output shape.
func BuildPrompt(text string, referenceNow time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	now := referenceNow.In(loc)
	today := now.Format("Monday, January 2, 2006")
	tomorrow := now.AddDate(0, 0, 1).Format("Monday, January 2, 2006")
	dayAfter := now.AddDate(0, 0, 2).Format("Monday, January 2, 2006")

	var b strings.Builder
	b.WriteString("You are an expert at extracting calendar event details from free-form text such as emails and documents.\n\n")
	fmt.Fprintf(&b, "Today's date is %v (timezone %v).\n", today, loc)
	fmt.Fprintf(&b, "Therefore \"tomorrow\" means %v and \"the day after tomorrow\" means %v.\n\n", tomorrow, dayAfter)

	b.WriteString("Date and time conversion examples:\n")
	fmt.Fprintf(&b, "- \"tomorrow at 2pm\" -> startDate %v\n", now.AddDate(0, 0, 1).Format("2006-01-02")+"T14:00:00")
	fmt.Fprintf(&b, "- \"today at 9:30am\" -> startDate %v\n", now.Format("2006-01-02")+"T09:30:00")
	fmt.Fprintf(&b, "- \"next Friday noon\" -> the first Friday after %v at 12:00:00\n\n", now.Format("2006-01-02"))

	b.WriteString("Respond with a single JSON object and nothing else. The shape is:\n")
	b.WriteString(`{"hasEvent": true, "events": [{"title": "...", "startDate": "2006-01-02T15:04:05", "endDate": "2006-01-02T16:04:05", "location": "...", "locationDetails": {"name": "...", "address": "...", "city": "...", "state": "...", "country": "..."}, "description": "...", "meetingLink": "...", "attendees": [{"name": "...", "email": "..."}], "timezone": "..."}]}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- If the text describes no calendar event, respond exactly {\"hasEvent\": false}.\n")
	b.WriteString("- startDate and endDate are required for every event; if no end is given, use start plus one hour.\n")
	b.WriteString("- Omit optional fields you cannot determine; never invent values.\n")
	b.WriteString("- A single event may be returned flat instead of inside \"events\".\n\n")

	b.WriteString("Text to analyze:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")
	return b.String()
}

// stripCodeFence removes a markdown code fence the collaborator may have
// wrapped its JSON answer in.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
