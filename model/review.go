package model

import "time"

type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id" validate:"required"`
	ClubID    string    `json:"club_id,omitempty"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text" validate:"required,max=5000"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id" validate:"required"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value" validate:"min=1,max=5"`
	CreatedAt time.Time `json:"created_at"`
}
