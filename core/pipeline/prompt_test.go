package pipeline

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateInput(t *testing.T) {
	t.Run("Short input passes through untouched", func(t *testing.T) {
		text, truncated := TruncateInput("short note", 4000)

		assert.Equal(t, "short note", text)
		assert.False(t, truncated)
	})

	t.Run("Long input is cut with a visible marker", func(t *testing.T) {
		long := strings.Repeat("a", 5000)

		text, truncated := TruncateInput(long, 4000)

		assert.True(t, truncated)
		assert.True(t, strings.HasSuffix(text, truncationMarker), "Expected the truncation marker at the end")
		assert.Equal(t, 4000+len(truncationMarker), len(text))
	})

	t.Run("Cut backs off to a rune boundary", func(t *testing.T) {
		long := strings.Repeat("ü", 100)

		text, truncated := TruncateInput(long, 7)

		assert.True(t, truncated)
		kept := strings.TrimSuffix(text, truncationMarker)
		assert.True(t, utf8.ValidString(kept), "Expected the kept prefix to stay valid UTF-8")
		assert.Equal(t, "üüü", kept)
	})

	t.Run("Non-positive bound disables truncation", func(t *testing.T) {
		long := strings.Repeat("a", 5000)

		text, truncated := TruncateInput(long, 0)

		assert.Equal(t, long, text)
		assert.False(t, truncated)
	})
}

func TestBuildPrompt(t *testing.T) {
	referenceNow := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	t.Run("Grounds relative dates in the caller's timezone", func(t *testing.T) {
		prompt := BuildPrompt("dinner tomorrow", referenceNow, time.UTC)

		assert.Contains(t, prompt, "Tuesday, June 10, 2025", "Expected today's date")
		assert.Contains(t, prompt, "2025-06-11", "Expected tomorrow's date")
		assert.Contains(t, prompt, "June 12, 2025", "Expected the day after's date")
		assert.Contains(t, prompt, "dinner tomorrow", "Expected the source text to be embedded")
	})

	t.Run("Pins the JSON output contract", func(t *testing.T) {
		prompt := BuildPrompt("text", referenceNow, time.UTC)

		assert.Contains(t, prompt, `"hasEvent"`)
		assert.Contains(t, prompt, `"events"`)
		assert.Contains(t, prompt, `{"hasEvent": false}`)
	})

	t.Run("Timezone shifts the computed dates", func(t *testing.T) {
		auckland, err := time.LoadLocation("Pacific/Auckland")
		require.NoError(t, err)

		// 2025-06-10 08:00 UTC is already 2025-06-10 20:00 in Auckland.
		prompt := BuildPrompt("text", referenceNow, auckland)

		assert.Contains(t, prompt, "Tuesday, June 10, 2025")
		assert.Contains(t, prompt, "Pacific/Auckland")
	})
}

func TestStripCodeFence(t *testing.T) {
	t.Run("Removes json fence", func(t *testing.T) {
		raw := "```json\n{\"hasEvent\": false}\n```"

		assert.Equal(t, `{"hasEvent": false}`, stripCodeFence(raw))
	})

	t.Run("Removes bare fence", func(t *testing.T) {
		raw := "```\n{\"hasEvent\": false}\n```"

		assert.Equal(t, `{"hasEvent": false}`, stripCodeFence(raw))
	})

	t.Run("Leaves unfenced text alone", func(t *testing.T) {
		raw := "  {\"hasEvent\": true} "

		assert.Equal(t, `{"hasEvent": true}`, stripCodeFence(raw))
	})
}
