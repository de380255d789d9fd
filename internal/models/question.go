package models

import "fmt"

// Difficulty levels are stored verbatim on question documents and matched
// case-sensitively by the pool filter.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type Option struct {
	ID        string `bson:"option_id" json:"option_id"`
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
}

type Question struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Topic       string   `bson:"topic" json:"topic"`
	SubTopic    string   `bson:"sub_topic" json:"sub_topic"`
	Difficulty  string   `bson:"difficulty" json:"difficulty"`
	Description string   `bson:"description" json:"description"`
	Options     []Option `bson:"options" json:"options"`
	Solution    string   `bson:"solution,omitempty" json:"solution,omitempty"`
}

// Validate checks the catalog invariants before a question is written.
// Exactly one option must carry the correct flag.
func (q *Question) Validate() error {
	if q.Topic == "" || q.SubTopic == "" {
		return fmt.Errorf("question requires topic and sub_topic")
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	if q.Description == "" {
		return fmt.Errorf("question requires a description")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question requires at least 2 options, got %d", len(q.Options))
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("question requires exactly 1 correct option, got %d", correct)
	}
	return nil
}

// OptionByID looks up an option on this question by its identifier.
func (q *Question) OptionByID(optionID string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}
