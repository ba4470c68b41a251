package validate

import "regexp"

// flagPattern is one entry in the red-flag table: a compiled pattern, the
// flag it raises, and the severity it carries. Keeping these as data keeps
// the tables independently testable and extensible without touching the
// validation control flow.
type flagPattern struct {
	re       *regexp.Regexp
	flagType string
	severity Severity
	message  string
}

// hallucinationPatterns match refusal and uncertainty phrasing that signals
// the provider did not actually produce an answer.
var hallucinationPatterns = []flagPattern{
	{
		re:       regexp.MustCompile(`(?i)\b(i'm|i am)\s+sorry\b`),
		flagType: FlagHallucination,
		severity: SeverityCritical,
		message:  "response contains an apology",
	},
	{
		re:       regexp.MustCompile(`(?i)\bi\s+(cannot|can't|can not|am unable to)\s+(help|assist|do|provide|complete)\b`),
		flagType: FlagHallucination,
		severity: SeverityCritical,
		message:  "response states inability to complete the task",
	},
	{
		re:       regexp.MustCompile(`(?i)\bas an ai\b`),
		flagType: FlagHallucination,
		severity: SeverityCritical,
		message:  "response contains AI self-reference",
	},
	{
		re:       regexp.MustCompile(`(?i)\bi\s+(don't|do not)\s+understand\b`),
		flagType: FlagHallucination,
		severity: SeverityCritical,
		message:  "response states it did not understand the request",
	},
	{
		re:       regexp.MustCompile(`(?i)\bi\s+(don't|do not)\s+have\s+(access|the ability)\b`),
		flagType: FlagHallucination,
		severity: SeverityCritical,
		message:  "response claims missing access or capability",
	},
}

// incompletenessPatterns match markers of a response that was cut off or
// deliberately left unfinished.
var incompletenessPatterns = []flagPattern{
	{
		re:       regexp.MustCompile(`\.\.\.\s*$`),
		flagType: FlagIncomplete,
		severity: SeverityHigh,
		message:  "response ends with an ellipsis",
	},
	{
		re:       regexp.MustCompile(`(?i)\[\s*(truncated|cut off|continued)\s*\]`),
		flagType: FlagIncomplete,
		severity: SeverityHigh,
		message:  "response contains a truncation marker",
	},
	{
		re:       regexp.MustCompile(`(?i)\bto be continued\b`),
		flagType: FlagIncomplete,
		severity: SeverityHigh,
		message:  "response is marked as to be continued",
	},
	{
		re:       regexp.MustCompile(`(?i)//\s*rest of (the )?(code|implementation|file)`),
		flagType: FlagIncomplete,
		severity: SeverityHigh,
		message:  "response elides part of the implementation",
	},
}

// codeHeuristic detects code-shaped text so syntax checking applies even
// when the task was not explicitly typed as code.
var codeHeuristic = regexp.MustCompile(`(?m)\b(function|class|import|export)\b|=>`)

// formatMarkers maps an expected structural format to the minimal syntactic
// marker whose absence raises a format-mismatch flag.
var formatMarkers = map[string][]string{
	"function": {"function", "=>"},
	"class":    {"class "},
	"import":   {"import "},
	"export":   {"export "},
}
