package models

import "time"

const (
	AssignmentActive   = "active"
	AssignmentArchived = "archived"
)

// Assignment binds a teacher, a set of students and one sub-topic of a
// topic. The document shape allows a list of sub-topics but the engines
// only ever act on the first entry.
type Assignment struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	TeacherID string    `bson:"teacher_id" json:"teacher_id"`
	Students  []string  `bson:"students" json:"students"`
	TopicID   string    `bson:"topic_id" json:"topic_id"`
	SubTopics []string  `bson:"sub_topics" json:"sub_topics"`
	Deadline  time.Time `bson:"deadline" json:"deadline"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PrimarySubTopic returns the sub-topic the assignment is scoped to.
func (a *Assignment) PrimarySubTopic() (string, bool) {
	if len(a.SubTopics) == 0 || a.SubTopics[0] == "" {
		return "", false
	}
	return a.SubTopics[0], true
}

// HasStudent reports whether the student is enrolled in this assignment.
func (a *Assignment) HasStudent(studentID string) bool {
	for _, id := range a.Students {
		if id == studentID {
			return true
		}
	}
	return false
}
