package scheduling

import (
	"strings"
	"time"
)

// ReplyKind classifies the outcome of a conversation turn.
type ReplyKind string

const (
	ReplyHelp        ReplyKind = "help"
	ReplyAvailable   ReplyKind = "available"
	ReplyUnavailable ReplyKind = "unavailable"
	ReplyConflict    ReplyKind = "conflict"
	ReplyConfirmed   ReplyKind = "confirmed"
)

// availabilityKeywords mark a question about free time rather than a request
// to book.
var availabilityKeywords = []string{"free", "available", "availability", "open", "busy"}

// Reply is the full result of one turn; Text is what the user sees.
type Reply struct {
	Kind         ReplyKind
	Text         string
	Request      ParsedRequest
	Conflict     *Booking
	Alternatives []Alternative
}

// Processor turns a single utterance into a reply against a booking snapshot
// and holds no per-turn state, so it is safe for concurrent use.
type Processor struct {
	dates   *DateTimeExtractor
	intents *IntentExtractor
}

// ProcessorOption customizes a Processor.
type ProcessorOption func(*Processor)

// WithDateTimeExtractor overrides the date/time extractor.
func WithDateTimeExtractor(e *DateTimeExtractor) ProcessorOption {
	return func(p *Processor) {
		if e != nil {
			p.dates = e
		}
	}
}

// WithIntentExtractor overrides the intent extractor.
func WithIntentExtractor(e *IntentExtractor) ProcessorOption {
	return func(p *Processor) {
		if e != nil {
			p.intents = e
		}
	}
}

// NewProcessor wires the default extractors.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		dates:   NewDateTimeExtractor(),
		intents: NewIntentExtractor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse resolves text into a ParsedRequest relative to now.
func (p *Processor) Parse(text string, now time.Time) (ParsedRequest, error) {
	res, err := p.dates.Resolve(text, now)
	if err != nil {
		return ParsedRequest{}, err
	}
	intent := p.intents.Extract(text)

	return ParsedRequest{
		ReferenceDate:       now,
		TargetStart:         res.Time,
		TargetEnd:           res.Time.Add(hoursToDuration(intent.DurationHours)),
		MeetingType:         intent.MeetingType,
		Title:               intent.Title,
		Description:         intent.Description,
		DurationHours:       intent.DurationHours,
		IsAvailabilityQuery: containsAny(strings.ToLower(text), availabilityKeywords),
		DateMatched:         res.DateMatched,
		TimeMatched:         res.TimeMatched,
	}, nil
}

// Process returns the reply text for one utterance.
func (p *Processor) Process(text string, now time.Time, bookings []Booking) string {
	return p.Evaluate(text, now, bookings).Text
}

// Evaluate answers one utterance against a snapshot of bookings. Availability
// questions are answered without producing a confirmation; booking requests
// either conflict (with alternatives) or are confirmed. Nothing is persisted.
func (p *Processor) Evaluate(text string, now time.Time, bookings []Booking) Reply {
	req, err := p.Parse(text, now)
	if err != nil {
		return Reply{Kind: ReplyHelp, Text: HelpMessage}
	}

	conflict, conflicted := FindConflict(req.TargetStart, req.TargetEnd, bookings)

	if req.IsAvailabilityQuery {
		if conflicted {
			return Reply{
				Kind:     ReplyUnavailable,
				Text:     formatUnavailable(req, conflict),
				Request:  req,
				Conflict: &conflict,
			}
		}
		return Reply{Kind: ReplyAvailable, Text: formatAvailable(req), Request: req}
	}

	if conflicted {
		alts := GenerateAlternatives(req.TargetStart, &conflict, req.DurationHours)
		return Reply{
			Kind:         ReplyConflict,
			Text:         formatConflict(conflict, alts),
			Request:      req,
			Conflict:     &conflict,
			Alternatives: alts,
		}
	}

	return Reply{Kind: ReplyConfirmed, Text: formatConfirmation(req), Request: req}
}
