package decompose

import (
	"regexp"
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// typeKeywords classifies a statement by its action verb. The earliest
// keyword in the statement wins, so the leading verb takes precedence;
// statements matching no set default to execute.
var typeKeywords = []struct {
	taskType models.SubtaskType
	words    []string
}{
	{models.SubtaskCreate, []string{"create", "add", "make", "generate", "build", "implement", "setup"}},
	{models.SubtaskWrite, []string{"write", "save", "output", "export"}},
	{models.SubtaskRead, []string{"read", "show", "display", "list", "get", "fetch", "load", "find"}},
	{models.SubtaskEdit, []string{"edit", "update", "modify", "change", "fix", "refactor", "rename", "replace"}},
	{models.SubtaskDelete, []string{"delete", "remove", "drop", "clean", "clear"}},
}

// keywordTypes indexes typeKeywords by word for whole-word lookup.
var keywordTypes = func() map[string]models.SubtaskType {
	m := make(map[string]models.SubtaskType)
	for _, entry := range typeKeywords {
		for _, word := range entry.words {
			m[word] = entry.taskType
		}
	}
	return m
}()

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	// conjunctionRe splits a single compound statement on coordinating
	// conjunctions.
	conjunctionRe    = regexp.MustCompile(`(?i)\s*(?:,\s*)?\b(?:and then|then|and|also|plus)\b\s*`)
	conjunctionProbe = regexp.MustCompile(`(?i)\b(?:and|then|also|plus)\b`)
	// targetPathRe picks out a file-path-looking token to use as the
	// statement's target.
	targetPathRe = regexp.MustCompile(`[A-Za-z0-9_][A-Za-z0-9_./-]*\.[A-Za-z0-9]+`)
	wordRe       = regexp.MustCompile(`[a-z]+`)
)

// ruleBasedDecompose splits a description into statements on sentence
// boundaries. If exactly one statement results and it contains a
// coordinating conjunction, it is re-split on those conjunctions. Each
// statement becomes one subtask depending on the previous statement.
func ruleBasedDecompose(description string) []*models.Subtask {
	statements := splitStatements(description)

	if len(statements) == 1 && conjunctionProbe.MatchString(statements[0]) {
		statements = splitNonEmpty(conjunctionRe, statements[0])
	}

	subtasks := make([]*models.Subtask, 0, len(statements))
	for i, stmt := range statements {
		st := &models.Subtask{
			ID:          i + 1,
			Description: stmt,
			Type:        classifyStatement(stmt),
			Target:      targetPathRe.FindString(stmt),
			Status:      models.SubtaskStatusPending,
		}
		if i > 0 {
			st.DependsOn = []int{i}
		}
		subtasks = append(subtasks, st)
	}
	return subtasks
}

func splitStatements(description string) []string {
	return splitNonEmpty(sentenceSplitRe, description)
}

func splitNonEmpty(re *regexp.Regexp, text string) []string {
	var out []string
	for _, part := range re.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// classifyStatement picks the subtask type from the first whole word of
// the statement that is a known keyword. Matching in statement order keeps
// the leading verb decisive: "Remove the created file" is a delete, not a
// create.
func classifyStatement(statement string) models.SubtaskType {
	words := wordRe.FindAllString(strings.ToLower(statement), -1)
	for i, word := range words {
		// "set up" spans two words.
		if word == "set" && i+1 < len(words) && words[i+1] == "up" {
			return models.SubtaskCreate
		}
		if t, ok := keywordTypes[word]; ok {
			return t
		}
	}
	return models.SubtaskExecute
}
