package quizgen

import (
	"fmt"

	"quiz-master/internal/domain"
)

const quizPrompt = `Generate a trivia quiz with %d multiple-choice questions about "%s".
The difficulty level should be %s.
Each question must have %d distinct options and exactly one correct answer.
Provide a short, interesting explanation for the correct answer.`

// jsonInstructions is appended for providers without native structured output.
const jsonInstructions = `

Respond with ONLY a JSON array and no other text. Each element must be an object with:
1.  "questionText": the question (string)
2.  "options": exactly %d distinct answer options (array of strings)
3.  "correctAnswerIndex": the zero-based index (0-%d) of the correct option (integer)
4.  "explanation": why the correct answer is right (string)

Example element:
{
  "questionText": "What is the capital of France?",
  "options": ["Berlin", "Madrid", "Paris", "Rome"],
  "correctAnswerIndex": 2,
  "explanation": "Paris has been the capital of France since the 10th century."
}`

// BuildPrompt embeds topic, difficulty and the requested count in the instruction text.
func BuildPrompt(settings domain.QuizSettings, count int) string {
	return fmt.Sprintf(quizPrompt, count, settings.Topic, settings.Difficulty, domain.OptionCount)
}

// BuildJSONPrompt is BuildPrompt plus an explicit description of the JSON shape.
func BuildJSONPrompt(settings domain.QuizSettings, count int) string {
	return BuildPrompt(settings, count) + fmt.Sprintf(jsonInstructions, domain.OptionCount, domain.OptionCount-1)
}

// Field names of the structured output. All four are required.
const (
	fieldQuestionText       = "questionText"
	fieldOptions            = "options"
	fieldCorrectAnswerIndex = "correctAnswerIndex"
	fieldExplanation        = "explanation"
)

var requiredFields = []string{fieldQuestionText, fieldOptions, fieldCorrectAnswerIndex, fieldExplanation}

const (
	optionsDescription = "Must contain exactly 4 distinct options."
	indexDescription   = "The zero-based index (0-3) of the correct option."
)

// questionJSONSchema is the item schema as a plain JSON-schema map, for providers that
// take function parameters.
func questionJSONSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			fieldQuestionText: map[string]interface{}{"type": "string"},
			fieldOptions: map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": optionsDescription,
			},
			fieldCorrectAnswerIndex: map[string]interface{}{
				"type":        "integer",
				"description": indexDescription,
			},
			fieldExplanation: map[string]interface{}{"type": "string"},
		},
		"required": requiredFields,
	}
}
