package models

import "time"

type User struct {
	ID                 int64     `db:"id" json:"id"`
	Username           string    `db:"username" json:"username"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	SecurityQuestion   string    `db:"security_question" json:"-"`
	SecurityAnswerHash string    `db:"security_answer_hash" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}

// NewUser carries already-hashed credentials into the store.
type NewUser struct {
	Username           string
	Email              string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
}

type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

type UserStats struct {
	ForumsCreated int64 `json:"forumsCreated"`
	Posts         int64 `json:"posts"`
	Comments      int64 `json:"comments"`
}

type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Stats     UserStats `json:"stats"`
}
