package model

import "time"

// User is the identity held by a session and stored alongside credentials.
// JSON keys match the records written by the browser app.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether the record carries the fields a session needs.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Email != ""
}
