package models

import "strings"

// User is the identity kept in the session
type User struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

// DisplayNameFromEmail returns the local part of an email address
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
