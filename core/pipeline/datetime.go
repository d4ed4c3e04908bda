package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/siherrmann/eventract/model"
)

// timePhrasePattern captures an explicit clock time in the source text:
// hour, optional minutes and am/pm marker. First match wins.
var timePhrasePattern = regexp.MustCompile(`(?i)\b(1[0-2]|0?[1-9])(?::([0-5][0-9]))?\s*(a\.?m\.?|p\.?m\.?)\b`)

// weekdayPattern finds an explicit weekday name in the source text.
var weekdayPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

// timeToleranceMinutes is how far the inferred clock time may drift from an
// explicit time phrase before the corrector overrides it.
const timeToleranceMinutes = 5

// CorrectDateTime cross-checks an inferred event's start/end against
// explicit time phrases, relative-date keywords and weekday names found in
// the source text, and deterministically overrides the inferred values when
// they disagree. referenceNow anchors "today"/"tomorrow" and the sanity
// bounds; minimumYear is the floor applied to inferred years.
//
// The event's times are rewritten in place. The returned notes describe
// every correction and inconsistency found; corrected reports whether any
// value was actually rewritten. Re-running with identical arguments is
// idempotent: the second run rewrites nothing.
func CorrectDateTime(event *model.EventRecord, sourceText string, referenceNow time.Time, minimumYear int) (corrected bool, notes []string) {
	if event == nil {
		return false, nil
	}

	// 1. Year floor: all events are prospective.
	if event.Start.Year() < minimumYear {
		originalYear := event.Start.Year()
		event.Start = withYear(event.Start, minimumYear)
		event.End = withYear(event.End, minimumYear)
		corrected = true
		notes = append(notes, fmt.Sprintf("corrected event year from %d to %d", originalYear, minimumYear))
	}

	// 2. Explicit time phrase cross-check.
	if groups := timePhrasePattern.FindStringSubmatch(sourceText); groups != nil {
		hour, _ := strconv.Atoi(groups[1])
		minute := 0
		if groups[2] != "" {
			minute, _ = strconv.Atoi(groups[2])
		}
		meridiem := strings.ToLower(strings.ReplaceAll(groups[3], ".", ""))
		// 12-hour to 24-hour: 12am -> 0, 12pm -> 12, pm adds 12 otherwise.
		if meridiem == "pm" && hour != 12 {
			hour += 12
		} else if meridiem == "am" && hour == 12 {
			hour = 0
		}

		inferredMinutes := event.Start.Hour()*60 + event.Start.Minute()
		phraseMinutes := hour*60 + minute
		if diff := abs(inferredMinutes - phraseMinutes); diff > timeToleranceMinutes {
			notes = append(notes, fmt.Sprintf(
				"corrected start time from %02d:%02d to %02d:%02d based on %q in the text",
				event.Start.Hour(), event.Start.Minute(), hour, minute, strings.TrimSpace(groups[0])))
			event.Start = withClock(event.Start, hour, minute)
			event.End = event.Start.Add(time.Hour)
			corrected = true
		}
	}

	// 3. Relative-date cross-check: warn on mismatch, never force-correct.
	lower := strings.ToLower(sourceText)
	for _, relative := range []struct {
		keyword string
		offset  int
	}{{"today", 0}, {"tomorrow", 1}} {
		if !containsWord(lower, relative.keyword) {
			continue
		}
		expected := referenceNow.AddDate(0, 0, relative.offset)
		if !sameDate(event.Start, expected) {
			notes = append(notes, fmt.Sprintf(
				"text says %q (%v) but the event date is %v",
				relative.keyword, expected.Format("2006-01-02"), event.Start.Format("2006-01-02")))
		}
	}

	// 4. Weekday-name cross-check.
	if groups := weekdayPattern.FindStringSubmatch(sourceText); groups != nil {
		named := capitalize(strings.ToLower(groups[1]))
		if implied := event.Start.Weekday().String(); named != implied {
			notes = append(notes, fmt.Sprintf(
				"text names %v but the event date falls on a %v", named, implied))
		}
	}

	// 5. Sanity bounds, warnings only.
	if event.Start.Before(referenceNow.AddDate(0, 0, -7)) {
		notes = append(notes, "event start is more than 7 days in the past")
	}
	if event.Start.After(referenceNow.AddDate(2, 0, 0)) {
		notes = append(notes, "event start is more than 2 years in the future")
	}
	if !event.End.After(event.Start) {
		notes = append(notes, "event end is not after its start")
	}

	return corrected, notes
}

// withYear rewrites only the year, preserving month, day and time of day.
func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// withClock rewrites only the hour and minute.
func withClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// sameDate compares by calendar date only, not time of day.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		before := idx == 0 || !isLetter(text[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(text) || !isLetter(text[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
