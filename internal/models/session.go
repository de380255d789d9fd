package models

import "time"

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// QuizSession persists one student's adaptive path between request/response
// round trips. The path engine itself is stateless; stage and level are
// reloaded from this document on every call.
type QuizSession struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	StudentID string    `bson:"student_id" json:"student_id"`
	Topic     string    `bson:"topic" json:"topic"`
	SubTopic  string    `bson:"sub_topic" json:"sub_topic"`
	Stage     string    `bson:"stage" json:"stage"`
	Level     string    `bson:"level" json:"level"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
