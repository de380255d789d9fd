package models

import "time"

// SelectedOption is a copy of the chosen option's id and text at answer
// time. The correct flag is never copied from the client; it is re-derived
// from the question document when the response is recorded.
type SelectedOption struct {
	OptionID string `bson:"option_id" json:"option_id"`
	Text     string `bson:"text" json:"text"`
}

// Response is a student's current answer to one question within one
// assignment. Natural key is (student_id, assignment_id, question_id);
// re-answering overwrites the previous document.
type Response struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	StudentID      string         `bson:"student_id" json:"student_id"`
	AssignmentID   string         `bson:"assignment_id" json:"assignment_id"`
	QuestionID     string         `bson:"question_id" json:"question_id"`
	SelectedOption SelectedOption `bson:"selected_option" json:"selected_option"`
	IsCorrect      bool           `bson:"is_correct" json:"is_correct"`
	Timestamp      time.Time      `bson:"timestamp" json:"timestamp"`
}
