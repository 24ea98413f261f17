package models

import "time"

type Forum struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	UserID      int64     `db:"user_id" json:"userId"`
	Author      string    `db:"author" json:"author"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
