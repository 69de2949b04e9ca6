package scheduling

import (
	"fmt"
	"strings"
)

// HelpMessage is returned when the utterance cannot be parsed.
const HelpMessage = "I couldn't understand the date and time. Please try something like 'Book a meeting tomorrow at 3pm' or 'Schedule call Friday afternoon'."

const (
	dayLayout      = "Monday, January 02"
	fullDateLayout = "Monday, January 02, 2006"
	clockLayout    = "03:04 PM"

	missingDescription = "Existing appointment"
)

func formatUnavailable(req ParsedRequest, conflict Booking) string {
	return fmt.Sprintf(
		"❌ Not available on %s at %s. You have '%s' scheduled then. Would you like me to suggest alternative times?",
		req.TargetStart.Format(dayLayout), req.TargetStart.Format(clockLayout), conflict.Title,
	)
}

func formatAvailable(req ParsedRequest) string {
	return fmt.Sprintf(
		"✅ Yes, you're available on %s at %s! Would you like me to book this time slot for a meeting?",
		req.TargetStart.Format(dayLayout), req.TargetStart.Format(clockLayout),
	)
}

func formatConflict(conflict Booking, alts []Alternative) string {
	description := conflict.Description
	if strings.TrimSpace(description) == "" {
		description = missingDescription
	}

	lines := make([]string, 0, len(alts))
	for _, alt := range alts {
		lines = append(lines, fmt.Sprintf("• **%s** (%s)", alt.DisplayText, alt.Reason))
	}

	var b strings.Builder
	b.WriteString("⚠️ **Time Conflict Detected**\n\n")
	fmt.Fprintf(&b, "The requested time slot conflicts with: **%s**\n", conflict.Title)
	fmt.Fprintf(&b, "*%s*\n\n", description)
	fmt.Fprintf(&b, "Here are %d alternative times:\n", len(alts))
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nWould you like to book one of these alternatives?")
	return b.String()
}

func formatConfirmation(req ParsedRequest) string {
	var b strings.Builder
	b.WriteString("✅ **Appointment Confirmed**\n\n")
	b.WriteString("📋 **Details:**\n")
	fmt.Fprintf(&b, "• **Title:** %s\n", req.Title)
	fmt.Fprintf(&b, "• **Date:** %s\n", req.TargetStart.Format(fullDateLayout))
	fmt.Fprintf(&b, "• **Time:** %s\n", req.TargetStart.Format(clockLayout))
	fmt.Fprintf(&b, "• **Duration:** %s\n", FormatDuration(req.DurationHours))
	fmt.Fprintf(&b, "• **Description:** %s\n\n", req.Description)
	b.WriteString("Your appointment has been successfully scheduled! 📅")
	return b.String()
}

// FormatDuration renders sub-hour durations in minutes and the rest in
// whole hours.
func FormatDuration(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%d minutes", int(hours*60))
	}
	whole := int(hours)
	if whole == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", whole)
}
