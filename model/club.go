package model

import "time"

type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=80"`
	Description string    `json:"description" validate:"max=1000"`
	OwnerID     string    `json:"owner_id"`
	Users       []string  `json:"users"`
	Books       []string  `json:"books"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Club) HasMember(userID string) bool {
	for _, id := range c.Users {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Club) HasBook(bookID string) bool {
	for _, id := range c.Books {
		if id == bookID {
			return true
		}
	}
	return false
}

// MembershipChange is published when a user joins or leaves a club.
type MembershipChange struct {
	ClubID string
	UserID string
}
