package ai

import (
	"fmt"
	"strings"
)

// QuizKind is a normalized quiz generation type.
type QuizKind string

const (
	QuizMCQ     QuizKind = "mcq"
	QuizOneLine QuizKind = "one line answer"
	QuizCoding  QuizKind = "coding question"
)

// questionsPerQuiz is how many questions a single generation asks for.
const questionsPerQuiz = 5

// ParseQuizKind accepts the generation names and the stored question type names, case-insensitively.
func ParseQuizKind(raw string) (QuizKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mcq":
		return QuizMCQ, nil
	case "one line answer", "one-line":
		return QuizOneLine, nil
	case "coding question", "coding":
		return QuizCoding, nil
	}
	return "", ErrUnsupportedType
}

func quizPrompt(kind QuizKind, topic, level string) string {
	switch kind {
	case QuizMCQ:
		return fmt.Sprintf("Generate %d multiple-choice questions on the topic %q.\nDifficulty level: %s.\nThe response MUST be a JSON array.",
			questionsPerQuiz, topic, level)
	case QuizOneLine:
		return fmt.Sprintf("Generate %d one-line answer questions on the topic %q.\nDifficulty level: %s.\nThe response MUST be a JSON array.",
			questionsPerQuiz, topic, level)
	default:
		return fmt.Sprintf(`Generate %d coding questions on the topic %q.
Difficulty level: %s.

For each coding question:
- Put only the problem statement in "question".
- Put the expected output of a correct solution in "answer", not the code.

Example:
{"question": "Write a program that adds 5 and 3.", "answer": "8"}

The response MUST be a JSON array.`, questionsPerQuiz, topic, level)
	}
}

func quizSchema(kind QuizKind) map[string]any {
	properties := map[string]any{
		"question": map[string]any{"type": "STRING"},
		"answer":   map[string]any{"type": "STRING"},
	}
	ordering := []string{"question", "answer"}

	if kind == QuizMCQ {
		properties["options"] = map[string]any{
			"type":  "ARRAY",
			"items": map[string]any{"type": "STRING"},
		}
		ordering = []string{"question", "options", "answer"}
	}

	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type":             "OBJECT",
			"properties":       properties,
			"propertyOrdering": ordering,
		},
	}
}

func judgePrompt(question, reference, submitted string) string {
	return fmt.Sprintf("Question: %s\nCorrect Answer: %s\nUser Answer: %s\nDecide if user answer is correct. Reply only \"true\" or \"false\".",
		question, reference, submitted)
}

// affirmative reads a judge reply. Anything containing "true" counts as yes.
func affirmative(reply string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(reply)), "true")
}
