package scheduling

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallClock(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// sampleBookings mirrors the demo calendar shipped with the assistant.
func sampleBookings() []Booking {
	return []Booking{
		{ID: "demo_1", Title: "Team Standup", Start: wallClock(2025, 6, 28, 9, 0), End: wallClock(2025, 6, 28, 9, 30), Description: "Daily team synchronization meeting"},
		{ID: "demo_2", Title: "Client Presentation", Start: wallClock(2025, 6, 30, 14, 0), End: wallClock(2025, 6, 30, 15, 30), Description: "Q4 results presentation to stakeholders"},
		{ID: "demo_3", Title: "Code Review Session", Start: wallClock(2025, 6, 28, 16, 0), End: wallClock(2025, 6, 28, 17, 0), Description: "Review pull requests and discuss architecture"},
		{ID: "demo_4", Title: "1:1 with Manager", Start: wallClock(2025, 7, 1, 11, 0), End: wallClock(2025, 7, 1, 11, 30), Description: "Weekly one-on-one discussion"},
		{ID: "demo_5", Title: "Product Planning", Start: wallClock(2025, 7, 2, 10, 0), End: wallClock(2025, 7, 2, 12, 0), Description: "Sprint planning and backlog grooming"},
	}
}

func TestProcessor_ConfirmsFreeSlot(t *testing.T) {
	p := NewProcessor()

	reply := p.Evaluate("Book team meeting Friday 10am", monday, sampleBookings())

	require.Equal(t, ReplyConfirmed, reply.Kind)
	assert.Equal(t, "meeting", reply.Request.MeetingType)
	// The title pattern captures "team meeting" ahead of the weekday, which
	// replaces the plain "Meeting" from the type table.
	assert.Equal(t, "Team Meeting", reply.Request.Title)
	assert.Equal(t, wallClock(2025, 6, 27, 10, 0), reply.Request.TargetStart)
	assert.Equal(t, wallClock(2025, 6, 27, 11, 0), reply.Request.TargetEnd)
	assert.Equal(t, 1.0, reply.Request.DurationHours)
	assert.Nil(t, reply.Conflict)

	assert.Contains(t, reply.Text, "✅ **Appointment Confirmed**")
	assert.Contains(t, reply.Text, "• **Title:** Team Meeting")
	assert.Contains(t, reply.Text, "• **Date:** Friday, June 27, 2025")
	assert.Contains(t, reply.Text, "• **Time:** 10:00 AM")
	assert.Contains(t, reply.Text, "• **Duration:** 1 hour")
	assert.Contains(t, reply.Text, "• **Description:** Scheduled via AI assistant")
}

func TestProcessor_AvailabilityQueryReportsConflict(t *testing.T) {
	p := NewProcessor()
	bookings := []Booking{
		{ID: "p", Title: "Client Presentation", Start: wallClock(2025, 6, 27, 14, 0), End: wallClock(2025, 6, 27, 15, 30)},
	}

	reply := p.Evaluate("Am I free Friday afternoon?", monday, bookings)

	require.Equal(t, ReplyUnavailable, reply.Kind)
	require.NotNil(t, reply.Conflict)
	assert.Equal(t, "Client Presentation", reply.Conflict.Title)
	assert.Equal(t,
		"❌ Not available on Friday, June 27 at 02:00 PM. You have 'Client Presentation' scheduled then. Would you like me to suggest alternative times?",
		reply.Text,
	)
}

func TestProcessor_AvailabilityQueryAgainstDemoCalendar(t *testing.T) {
	saturday := wallClock(2025, 6, 28, 8, 0)

	text := NewProcessor().Process("Am I free Monday afternoon?", saturday, sampleBookings())

	assert.Contains(t, text, "Not available on Monday, June 30 at 02:00 PM")
	assert.Contains(t, text, "'Client Presentation'")
}

func TestProcessor_AvailabilityQueryFree(t *testing.T) {
	reply := NewProcessor().Evaluate("Are you available tomorrow morning?", monday, sampleBookings())

	require.Equal(t, ReplyAvailable, reply.Kind)
	assert.Equal(t,
		"✅ Yes, you're available on Tuesday, June 24 at 09:00 AM! Would you like me to book this time slot for a meeting?",
		reply.Text,
	)
}

func TestProcessor_AvailabilityShortCircuitsBooking(t *testing.T) {
	reply := NewProcessor().Evaluate("Book a meeting tomorrow at 3pm if I'm free", monday, nil)

	assert.Equal(t, ReplyAvailable, reply.Kind)
	assert.NotContains(t, reply.Text, "Appointment Confirmed")
}

func TestProcessor_ConflictOffersAlternatives(t *testing.T) {
	saturday := wallClock(2025, 6, 28, 8, 0)

	reply := NewProcessor().Evaluate("Book a review today at 9:15am", saturday, sampleBookings())

	require.Equal(t, ReplyConflict, reply.Kind)
	require.NotNil(t, reply.Conflict)
	assert.Equal(t, "demo_1", reply.Conflict.ID)
	require.Len(t, reply.Alternatives, 3)

	want := strings.Join([]string{
		"⚠️ **Time Conflict Detected**",
		"",
		"The requested time slot conflicts with: **Team Standup**",
		"*Daily team synchronization meeting*",
		"",
		"Here are 3 alternative times:",
		"• **Saturday, June 28 at 09:45 AM** (Right after Team Standup)",
		"• **Saturday, June 28 at 10:15 AM** (1 hour later)",
		"• **Saturday, June 28 at 11:15 AM** (2 hours later)",
		"",
		"Would you like to book one of these alternatives?",
	}, "\n")
	assert.Equal(t, want, reply.Text)
}

func TestProcessor_ConflictWithoutDescription(t *testing.T) {
	bookings := []Booking{{ID: "x", Title: "Hold", Start: wallClock(2025, 6, 24, 13, 0), End: wallClock(2025, 6, 24, 16, 0)}}

	text := NewProcessor().Process("schedule a sync tomorrow", monday, bookings)

	assert.Contains(t, text, "*Existing appointment*")
}

func TestProcessor_TouchingBookingIsNotAConflict(t *testing.T) {
	bookings := []Booking{{ID: "x", Title: "Before", Start: wallClock(2025, 6, 24, 13, 0), End: wallClock(2025, 6, 24, 14, 0)}}

	reply := NewProcessor().Evaluate("schedule a sync tomorrow 2pm", monday, bookings)

	assert.Equal(t, ReplyConfirmed, reply.Kind)
}

func TestProcessor_InvalidTimeReturnsHelp(t *testing.T) {
	reply := NewProcessor().Evaluate("Book a call tomorrow at 13pm", monday, sampleBookings())

	assert.Equal(t, ReplyHelp, reply.Kind)
	assert.Equal(t, HelpMessage, reply.Text)
}

func TestProcessor_NoSignalsUseDefaults(t *testing.T) {
	reply := NewProcessor().Evaluate("hello", monday, nil)

	require.Equal(t, ReplyConfirmed, reply.Kind)
	assert.Equal(t, wallClock(2025, 6, 23, 14, 0), reply.Request.TargetStart)
	assert.False(t, reply.Request.DateMatched)
	assert.False(t, reply.Request.TimeMatched)
	assert.Equal(t, "Meeting", reply.Request.Title)
}

func TestProcessor_ShortDurationFormatting(t *testing.T) {
	text := NewProcessor().Process("quick call tomorrow 11am", monday, nil)

	assert.Contains(t, text, "• **Duration:** 15 minutes")
}

func TestProcessor_Idempotent(t *testing.T) {
	p := NewProcessor()
	bookings := sampleBookings()
	saturday := wallClock(2025, 6, 28, 8, 0)

	for _, input := range []string{"Book a review today at 9:15am", "Am I free Monday afternoon?", "Book team meeting Friday 10am"} {
		first := p.Process(input, saturday, bookings)
		second := p.Process(input, saturday, bookings)
		assert.Equal(t, first, second, input)
	}
}

func TestParse_EndFollowsDuration(t *testing.T) {
	req, err := NewProcessor().Parse("2 hour planning session next week 9am", monday)
	require.NoError(t, err)

	assert.Equal(t, 2.0, req.DurationHours)
	assert.Equal(t, 2*time.Hour, req.Duration())
	assert.Equal(t, req.TargetStart.Add(req.Duration()), req.TargetEnd)
	assert.Equal(t, monday, req.ReferenceDate)
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0.25: "15 minutes",
		0.5:  "30 minutes",
		1:    "1 hour",
		2:    "2 hours",
	}
	for hours, want := range cases {
		assert.Equal(t, want, FormatDuration(hours))
	}
}
