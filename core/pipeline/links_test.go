package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siherrmann/eventract/model"
)

func TestScanMeetingLink(t *testing.T) {
	t.Run("Finds zoom link", func(t *testing.T) {
		text := "Meeting tomorrow at 2pm, join via https://zoom.us/j/123"

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://zoom.us/j/123", link)
	})

	t.Run("Finds google meet link", func(t *testing.T) {
		text := "Hop on https://meet.google.com/abc-defg-hij when you're ready."

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://meet.google.com/abc-defg-hij", link)
	})

	t.Run("Finds teams link", func(t *testing.T) {
		text := "Teams: https://teams.microsoft.com/l/meetup-join/19%3ameeting_xyz"

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://teams.microsoft.com/l/meetup-join/19%3ameeting_xyz", link)
	})

	t.Run("Provider link wins over generic link", func(t *testing.T) {
		text := "Agenda at https://example.com/meeting-notes and call at https://zoom.us/j/987"

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://zoom.us/j/987", link)
	})

	t.Run("Finds generic link with join intent", func(t *testing.T) {
		text := "Dial in here: https://example.com/conference/weekly-sync"

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://example.com/conference/weekly-sync", link)
	})

	t.Run("Finds anchor href with join intent", func(t *testing.T) {
		text := `<p>See you there! <a href="https://corp.example.com/join/standup">Click</a></p>`

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://corp.example.com/join/standup", link)
	})

	t.Run("Join phrase without URL returns the sentinel", func(t *testing.T) {
		text := "Click here to join the call from your calendar invite."

		link := ScanMeetingLink(text)

		assert.Equal(t, model.MeetingLinkPending, link)
	})

	t.Run("No link and no intent returns empty", func(t *testing.T) {
		text := "Lunch at the corner cafe on Friday."

		link := ScanMeetingLink(text)

		assert.Empty(t, link)
	})

	t.Run("Trailing punctuation is stripped", func(t *testing.T) {
		text := "Join via https://zoom.us/j/456."

		link := ScanMeetingLink(text)

		assert.Equal(t, "https://zoom.us/j/456", link)
	})
}
