package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Student is the learner record linked to a user account. Responses and
// assignments reference the student id, not the user id.
type Student struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Name      string    `bson:"name" json:"name"`
	Grade     string    `bson:"grade,omitempty" json:"grade,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PasswordReset is a one-shot token for the password reset flow. Delivery
// of the token is handled by an external mailer.
type PasswordReset struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
