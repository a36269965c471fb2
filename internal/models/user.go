// Package models defines client-side data records used across the Zipboard client.
package models

// User is the account record returned by the API. It is treated as opaque
// beyond the identifier: the client replaces it wholesale on every successful
// authentication and never edits individual fields.
type User struct {
	// ID is a globally unique identifier for the account.
	ID string `json:"id"`

	// Username is the public handle shown on leaderboards and the profile page.
	Username string `json:"username"`

	// Email is the address the account was registered with, when the API
	// chooses to return it.
	Email string `json:"email,omitempty"`

	// AvatarURL points at the profile image, typically filled in by OAuth
	// providers.
	AvatarURL string `json:"avatarUrl,omitempty"`
}
