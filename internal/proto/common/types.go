// Package common holds message types shared by several services.
package common

// Tag is a teacher skill or a student interest on the wire.
type Tag struct {
	Name               string `json:"name"`
	Level              string `json:"level,omitempty"`
	DesiredLevel       string `json:"desired_level,omitempty"`
	Description        string `json:"description,omitempty"`
	RequiresEvaluation bool   `json:"requires_evaluation,omitempty"`
}

// RatingSummary is a user's reputation. Average is null without ratings.
type RatingSummary struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

// UserCard is the short description of another user shown in lists.
type UserCard struct {
	UserId   string `json:"user_id"`
	Name     string `json:"name"`
	PhotoUrl string `json:"photo_url,omitempty"`
	Role     string `json:"role,omitempty"`
}
