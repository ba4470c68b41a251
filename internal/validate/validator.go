// Package validate red-flags candidate responses: static textual and
// syntactic signals of unreliability accumulate into flags, and a candidate
// with any critical flag is excluded from the voting pool.
package validate

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/quorum/internal/parser"
	"github.com/ShayCichocki/quorum/internal/tokens"
)

// Severity ranks how strongly a flag counts against a response.
type Severity string

const (
	// SeverityCritical invalidates the response outright.
	SeverityCritical Severity = "critical"
	// SeverityHigh is a strong reliability signal.
	SeverityHigh Severity = "high"
	// SeverityMedium is a moderate reliability signal.
	SeverityMedium Severity = "medium"
	// SeverityLow is a weak reliability signal.
	SeverityLow Severity = "low"
)

// Weight returns the confidence penalty for this severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 1.0
	case SeverityHigh:
		return 0.3
	case SeverityMedium:
		return 0.1
	case SeverityLow:
		return 0.05
	default:
		return 0
	}
}

// Flag type identifiers.
const (
	FlagEmptyResponse  = "empty_response"
	FlagHallucination  = "hallucination"
	FlagIncomplete     = "incomplete"
	FlagUnbalanced     = "unbalanced_brackets"
	FlagTooLong        = "length_exceeded"
	FlagAboveExpected  = "length_above_expected"
	FlagTooShort       = "length_below_minimum"
	FlagSyntaxError    = "syntax_error"
	FlagFormatMismatch = "format_mismatch"
)

// Flag is one reliability finding against a response.
type Flag struct {
	// Type identifies the check that raised the flag.
	Type string `json:"type"`
	// Severity is the flag's penalty class.
	Severity Severity `json:"severity"`
	// Message describes the finding.
	Message string `json:"message"`
}

// Result is the outcome of validating one response.
type Result struct {
	// Valid is true when no critical flag was raised. It is independent of
	// the numeric confidence: a response carrying several non-critical
	// flags can be valid with low confidence.
	Valid bool `json:"valid"`
	// Flags lists every finding, in check order.
	Flags []Flag `json:"flags,omitempty"`
	// Confidence is max(0, 1 - sum of flag severity weights).
	Confidence float64 `json:"confidence"`
	// Summary is a short human-readable account of the findings.
	Summary string `json:"summary"`
}

// Task describes what the response was expected to contain.
type Task struct {
	// Type marks the task kind; "code" forces syntax checking.
	Type string
	// ExpectedFormat names a structural format the response must carry:
	// function, class, import, or export. Empty skips the check.
	ExpectedFormat string
	// ExpectedLength is the anticipated response size in tokens. Zero
	// skips the above-expected check.
	ExpectedLength int
}

// Options configures validator limits.
type Options struct {
	// HardMaxTokens is the absolute response length ceiling. Default 1500.
	HardMaxTokens int
	// HardMinTokens is the absolute response length floor. Default 5.
	HardMinTokens int
}

// Validator scores candidate responses for reliability.
type Validator struct {
	hardMax int
	hardMin int
	counter *tokens.Counter
}

// New creates a Validator with the given options.
func New(opts Options) *Validator {
	hardMax := opts.HardMaxTokens
	if hardMax == 0 {
		hardMax = 1500
	}
	hardMin := opts.HardMinTokens
	if hardMin == 0 {
		hardMin = 5
	}
	return &Validator{
		hardMax: hardMax,
		hardMin: hardMin,
		counter: tokens.NewCounter(),
	}
}

// Validate runs every check against text and accumulates flags. Empty text
// short-circuits with a single critical flag and confidence zero.
func (v *Validator) Validate(text string, task Task) Result {
	if strings.TrimSpace(text) == "" {
		return Result{
			Valid: false,
			Flags: []Flag{{
				Type:     FlagEmptyResponse,
				Severity: SeverityCritical,
				Message:  "response is empty or whitespace only",
			}},
			Confidence: 0,
			Summary:    "empty response",
		}
	}

	var flags []Flag
	flags = append(flags, matchPatterns(text, hallucinationPatterns)...)
	flags = append(flags, matchPatterns(text, incompletenessPatterns)...)
	flags = append(flags, checkBracketBalance(text)...)
	flags = append(flags, v.checkLength(text, task)...)

	if task.Type == "code" || codeHeuristic.MatchString(text) {
		flags = append(flags, checkSyntax(text)...)
	}
	if task.ExpectedFormat != "" {
		flags = append(flags, checkFormat(text, task.ExpectedFormat)...)
	}

	return buildResult(flags)
}

// ValidateBatch validates each text independently.
func (v *Validator) ValidateBatch(texts []string, task Task) []Result {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = v.Validate(text, task)
	}
	return results
}

// FilterValid returns only the texts whose validation raised no critical
// flag, preserving input order.
func (v *Validator) FilterValid(texts []string, task Task) []string {
	var valid []string
	for _, text := range texts {
		if v.Validate(text, task).Valid {
			valid = append(valid, text)
		}
	}
	return valid
}

func matchPatterns(text string, patterns []flagPattern) []Flag {
	var flags []Flag
	for _, p := range patterns {
		if p.re.MatchString(text) {
			flags = append(flags, Flag{Type: p.flagType, Severity: p.severity, Message: p.message})
		}
	}
	return flags
}

// checkBracketBalance runs a stack over ()[]{}. Any unmatched closer or
// leftover opener raises a high-severity flag.
func checkBracketBalance(text string) []Flag {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune

	for _, r := range text {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return []Flag{{
					Type:     FlagUnbalanced,
					Severity: SeverityHigh,
					Message:  fmt.Sprintf("unmatched closing %q", string(r)),
				}}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return []Flag{{
			Type:     FlagUnbalanced,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d unclosed bracket(s)", len(stack)),
		}}
	}
	return nil
}

func (v *Validator) checkLength(text string, task Task) []Flag {
	var flags []Flag
	count := v.counter.Count(text)

	switch {
	case count > v.hardMax:
		flags = append(flags, Flag{
			Type:     FlagTooLong,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("response is %d tokens, above the hard maximum of %d", count, v.hardMax),
		})
	case task.ExpectedLength > 0 && float64(count) > float64(task.ExpectedLength)*2.0:
		flags = append(flags, Flag{
			Type:     FlagAboveExpected,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("response is %d tokens, more than twice the expected %d", count, task.ExpectedLength),
		})
	}

	if count < v.hardMin {
		flags = append(flags, Flag{
			Type:     FlagTooShort,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("response is %d tokens, below the minimum of %d", count, v.hardMin),
		})
	}
	return flags
}

// checkSyntax parses under module then script grammar; only if both fail is
// a critical syntax flag raised, carrying the parser-reported position.
func checkSyntax(text string) []Flag {
	if res, err := parser.Parse(text, parser.ModeModule); err == nil {
		res.Close()
		return nil
	}
	res, err := parser.Parse(text, parser.ModeScript)
	if err == nil {
		res.Close()
		return nil
	}
	return []Flag{{
		Type:     FlagSyntaxError,
		Severity: SeverityCritical,
		Message:  fmt.Sprintf("syntax check failed in both grammar modes: %v", err),
	}}
}

func checkFormat(text, format string) []Flag {
	markers, ok := formatMarkers[format]
	if !ok {
		return nil
	}
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return nil
		}
	}
	return []Flag{{
		Type:     FlagFormatMismatch,
		Severity: SeverityHigh,
		Message:  fmt.Sprintf("expected %s structure not found", format),
	}}
}

func buildResult(flags []Flag) Result {
	penalty := 0.0
	counts := map[Severity]int{}
	valid := true

	for _, f := range flags {
		penalty += f.Severity.Weight()
		counts[f.Severity]++
		if f.Severity == SeverityCritical {
			valid = false
		}
	}

	confidence := 1.0 - penalty
	if confidence < 0 {
		confidence = 0
	}

	summary := "no flags"
	if len(flags) > 0 {
		var parts []string
		for _, sev := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
			if counts[sev] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
			}
		}
		summary = strings.Join(parts, ", ") + " flag(s)"
	}

	return Result{Valid: valid, Flags: flags, Confidence: confidence, Summary: summary}
}
