package domain

import "quiz-master/internal/util"

// Score band labels, highest first.
const (
	LabelQuizMaster   = "Quiz Master!"
	LabelGreatJob     = "Great Job!"
	LabelGoodEffort   = "Good Effort!"
	LabelKeepLearning = "Keep Learning!"
)

var scoreBands = []struct {
	min   int
	label string
}{
	{90, LabelQuizMaster},
	{70, LabelGreatJob},
	{50, LabelGoodEffort},
}

// RecordAnswer appends the answer for questions[currentIndex] with TimeTaken 0.
// It is append-only and does not deduplicate; callers guard against double submission.
func RecordAnswer(questions []Question, currentIndex int, answers []UserAnswer, selectedOptionIndex int) []UserAnswer {
	return RecordTimedAnswer(questions, currentIndex, answers, selectedOptionIndex, 0)
}

// RecordTimedAnswer is RecordAnswer with a measured elapsed time in seconds.
func RecordTimedAnswer(questions []Question, currentIndex int, answers []UserAnswer, selectedOptionIndex int, timeTaken float64) []UserAnswer {
	q := questions[currentIndex]
	out := make([]UserAnswer, len(answers), len(answers)+1)
	copy(out, answers)
	return append(out, UserAnswer{
		QuestionID:          q.ID,
		SelectedOptionIndex: selectedOptionIndex,
		IsCorrect:           selectedOptionIndex == q.CorrectAnswerIndex,
		TimeTaken:           timeTaken,
	})
}

// Result is the derived outcome of a finished quiz. It is computed, never stored.
type Result struct {
	CorrectCount int    `json:"correctCount"`
	Total        int    `json:"total"`
	Percentage   int    `json:"scorePercentage"`
	Label        string `json:"label"`
}

// Score counts correct answers against the number of questions.
func Score(questions []Question, answers []UserAnswer) Result {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	pct := util.RoundPercentage(correct, len(questions))
	return Result{
		CorrectCount: correct,
		Total:        len(questions),
		Percentage:   pct,
		Label:        ScoreLabel(pct),
	}
}

// ScoreLabel maps a percentage to its band. Lower bounds are inclusive.
func ScoreLabel(percentage int) string {
	for _, b := range scoreBands {
		if percentage >= b.min {
			return b.label
		}
	}
	return LabelKeepLearning
}

// ReviewItem pairs a question with what the user picked.
type ReviewItem struct {
	Question      Question `json:"question"`
	SelectedIndex *int     `json:"selectedOptionIndex,omitempty"`
	IsCorrect     bool     `json:"isCorrect"`
	TimeTaken     float64  `json:"timeTaken"`
}

// Review lists every question in order with the matching answer, if any.
func Review(questions []Question, answers []UserAnswer) []ReviewItem {
	byID := make(map[int]UserAnswer, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			byID[a.QuestionID] = a
		}
	}
	items := make([]ReviewItem, 0, len(questions))
	for _, q := range questions {
		item := ReviewItem{Question: q}
		if a, ok := byID[q.ID]; ok {
			selected := a.SelectedOptionIndex
			item.SelectedIndex = &selected
			item.IsCorrect = a.IsCorrect
			item.TimeTaken = a.TimeTaken
		}
		items = append(items, item)
	}
	return items
}
