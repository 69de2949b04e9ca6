package scheduling

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultTitle       = "Meeting"
	defaultDescription = "Scheduled via AI assistant"
	defaultDuration    = 1.0
)

// MeetingTypeRule maps a meeting type to the substrings that trigger it.
type MeetingTypeRule struct {
	Type        string
	Triggers    []string
	Description string
}

// DurationRule maps trigger substrings to a duration in hours.
type DurationRule struct {
	Triggers []string
	Hours    float64
}

// DefaultMeetingTypeRules is the ordered meeting type table.
func DefaultMeetingTypeRules() []MeetingTypeRule {
	return []MeetingTypeRule{
		{Type: "call", Triggers: []string{"call", "phone call", "conference call"}, Description: "Conference call scheduled via AI assistant"},
		{Type: "meeting", Triggers: []string{"meeting", "discussion", "sync"}},
		{Type: "interview", Triggers: []string{"interview", "screening", "candidate"}, Description: "Interview session scheduled via AI assistant"},
		{Type: "lunch", Triggers: []string{"lunch", "coffee", "breakfast"}},
		{Type: "presentation", Triggers: []string{"presentation", "demo", "showcase"}},
		{Type: "review", Triggers: []string{"review", "feedback", "evaluation"}},
		{Type: "1:1", Triggers: []string{"1:1", "1-on-1", "one on one"}},
		{Type: "standup", Triggers: []string{"standup", "daily", "scrum"}},
	}
}

// DefaultDurationRules is the ordered duration table; anything else is one hour.
func DefaultDurationRules() []DurationRule {
	return []DurationRule{
		{Triggers: []string{"quick", "15 min"}, Hours: 0.25},
		{Triggers: []string{"30 min"}, Hours: 0.5},
		{Triggers: []string{"2 hour"}, Hours: 2},
	}
}

// TitleStrategy pulls a more specific meeting title out of lowercased text.
type TitleStrategy interface {
	ExtractTitle(lower string) (string, bool)
}

// RegexTitleStrategy captures the phrase between an optional "book/schedule"
// and the first temporal keyword. Patterns are tried in order.
type RegexTitleStrategy struct {
	patterns []*regexp.Regexp
}

const temporalKeywords = `tomorrow|today|friday|monday|tuesday|wednesday|thursday|saturday|sunday`

// NewRegexTitleStrategy returns the default two-pattern strategy.
func NewRegexTitleStrategy() *RegexTitleStrategy {
	return &RegexTitleStrategy{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:book|schedule)\s+(?:a\s+)?(.+?)\s+(?:for|at|on|` + temporalKeywords + `)`),
			regexp.MustCompile(`(.+?)\s+(?:` + temporalKeywords + `)`),
		},
	}
}

// ExtractTitle implements TitleStrategy. Casers are not safe to share, so one
// is built per call.
func (s *RegexTitleStrategy) ExtractTitle(lower string) (string, bool) {
	for _, re := range s.patterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if phrase := strings.TrimSpace(m[1]); len(phrase) > 2 {
			return cases.Title(language.English).String(phrase), true
		}
	}
	return "", false
}

// Intent is the meeting metadata derived from an utterance.
type Intent struct {
	MeetingType   string
	Title         string
	Description   string
	DurationHours float64
}

// IntentExtractor derives title, description and duration from free text.
type IntentExtractor struct {
	typeRules     []MeetingTypeRule
	durationRules []DurationRule
	titles        TitleStrategy
}

// IntentOption customizes an IntentExtractor.
type IntentOption func(*IntentExtractor)

// WithTitleStrategy swaps the title refinement strategy. A nil strategy
// disables refinement.
func WithTitleStrategy(strategy TitleStrategy) IntentOption {
	return func(e *IntentExtractor) {
		e.titles = strategy
	}
}

// WithMeetingTypeRules replaces the meeting type table.
func WithMeetingTypeRules(rules []MeetingTypeRule) IntentOption {
	return func(e *IntentExtractor) {
		e.typeRules = rules
	}
}

// WithDurationRules replaces the duration table.
func WithDurationRules(rules []DurationRule) IntentOption {
	return func(e *IntentExtractor) {
		e.durationRules = rules
	}
}

// NewIntentExtractor builds an extractor over the default tables.
func NewIntentExtractor(opts ...IntentOption) *IntentExtractor {
	e := &IntentExtractor{
		typeRules:     DefaultMeetingTypeRules(),
		durationRules: DefaultDurationRules(),
		titles:        NewRegexTitleStrategy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract never fails; unmatched text yields "Meeting", the default
// description and one hour.
func (e *IntentExtractor) Extract(text string) Intent {
	lower := strings.ToLower(text)
	intent := Intent{
		Title:         defaultTitle,
		Description:   defaultDescription,
		DurationHours: defaultDuration,
	}

	for _, rule := range e.typeRules {
		if containsAny(lower, rule.Triggers) {
			intent.MeetingType = rule.Type
			intent.Title = capitalize(rule.Type)
			if rule.Description != "" {
				intent.Description = rule.Description
			}
			break
		}
	}

	if e.titles != nil {
		if title, ok := e.titles.ExtractTitle(lower); ok {
			intent.Title = title
		}
	}

	for _, rule := range e.durationRules {
		if containsAny(lower, rule.Triggers) {
			intent.DurationHours = rule.Hours
			break
		}
	}
	return intent
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
