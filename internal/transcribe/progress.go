package transcribe

import "strings"

// State enumerates the coarse phases reported while whisper runs.
type State int

const (
	StateIdle State = iota
	StateDetectingLanguage
	StateTranscribing
	StateReadingResult
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetectingLanguage:
		return "detecting_language"
	case StateTranscribing:
		return "transcribing"
	case StateReadingResult:
		return "reading_result"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further progress follows this state.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Progress is a single report delivered to the caller's callback.
type Progress struct {
	State   State
	Percent int
	Message string
}

// Fixed reports emitted outside of stream matching.
var (
	progressIdle      = Progress{State: StateIdle, Percent: 0, Message: "Starting transcription..."}
	progressReading   = Progress{State: StateReadingResult, Percent: 80, Message: "Reading transcription..."}
	progressComplete  = Progress{State: StateComplete, Percent: 100, Message: "Complete!"}
	progressNoResults = Progress{State: StateFailed, Message: "Error: Transcription failed"}
)

func failure(err error) Progress {
	return Progress{State: StateFailed, Message: "Error: " + err.Error()}
}

// Rule maps a diagnostic line containing Pattern to a progress report.
type Rule struct {
	Pattern string
	State   State
	Percent int
	Message string
}

// Progress returns the report a matching line produces.
func (r Rule) Progress() Progress {
	return Progress{State: r.State, Percent: r.Percent, Message: r.Message}
}

// DefaultRules returns the rules for whisper's stderr output.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "Detecting language", State: StateDetectingLanguage, Percent: 30, Message: "Detecting language..."},
		{Pattern: "Transcribing", State: StateTranscribing, Percent: 60, Message: "Transcribing audio..."},
	}
}

// MatchLine returns the first rule whose pattern occurs in line.
func MatchLine(rules []Rule, line string) (Rule, bool) {
	if line == "" {
		return Rule{}, false
	}
	for _, rule := range rules {
		if rule.Pattern == "" {
			continue
		}
		if strings.Contains(line, rule.Pattern) {
			return rule, true
		}
	}
	return Rule{}, false
}

// reporter forwards progress to the callback, suppressing repeated states.
type reporter struct {
	fn      func(Progress)
	last    Progress
	started bool
}

func (r *reporter) emit(p Progress) {
	if r.started && r.last.State == p.State {
		return
	}
	r.started = true
	r.last = p
	if r.fn != nil {
		r.fn(p)
	}
}
