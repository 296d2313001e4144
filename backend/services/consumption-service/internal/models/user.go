package models

import "strings"

// UserSummary is the slice of a user account needed to label alerts.
type UserSummary struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Address   string `db:"address" json:"address"`
}

// DisplayName joins first and last name.
func (u UserSummary) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
