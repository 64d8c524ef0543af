package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"quiz-master/internal/domain"
)

// ErrMessageUnparsable is the message of every GenerationError caused by the payload itself.
const ErrMessageUnparsable = "empty or unparsable response"

type rawQuestion struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex *int     `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// cleanResponse strips what models commonly wrap around JSON: whitespace, <think> blocks
// and markdown fences. It then cuts the outermost JSON array if one is present.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd > thinkStart {
			s = strings.TrimSpace(s[:thinkStart] + s[thinkEnd+len("</think>"):])
		}
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseQuestions decodes a generator payload into normalized questions.
//
// IDs are assigned from array position and every other field is copied verbatim. The batch
// is then validated; want > 0 additionally requires exactly that many questions.
// Empty or undecodable payloads yield a GENERATION_ERROR, structurally bad batches a
// ValidationErrors value.
func ParseQuestions(raw string, want int) ([]domain.Question, error) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return nil, domain.NewGenerationError(ErrMessageUnparsable, nil)
	}

	var parsed []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, domain.NewGenerationError(ErrMessageUnparsable, err)
	}
	// A bare null decodes cleanly but carries no batch at all.
	if parsed == nil {
		return nil, domain.NewGenerationError(ErrMessageUnparsable, nil)
	}

	questions := make([]domain.Question, len(parsed))
	for i, rq := range parsed {
		idx := -1
		if rq.CorrectAnswerIndex != nil {
			idx = *rq.CorrectAnswerIndex
		}
		questions[i] = domain.Question{
			ID:                 i,
			QuestionText:       rq.QuestionText,
			Options:            rq.Options,
			CorrectAnswerIndex: idx,
			Explanation:        rq.Explanation,
		}
	}

	if want > 0 && len(questions) != want {
		return nil, domain.ValidationErrors{domain.NewFieldValidationError("questions",
			fmt.Sprintf("expected %d questions, got %d", want, len(questions)), len(questions))}
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
