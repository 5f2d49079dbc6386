// Package clients manages the client records agencies bet on behalf of.
package clients

import "time"

// Client is a registered client, optionally tied to an agency group.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GroupID   *string   `json:"group_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientForm is the create/update payload.
type ClientForm struct {
	Name     string  `json:"name" validate:"required"`
	GroupID  *string `json:"group_id" validate:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}
