package domain

import "context"

// QuizGenerator produces a validated, normalized batch of questions for the given settings.
// Implementations make exactly one upstream call and never retry.
type QuizGenerator interface {
	Generate(ctx context.Context, settings QuizSettings) ([]Question, error)
}
