package models

import "time"

// Video is the relational metadata record for an uploaded swing video.
// The object itself lives in the bucket under Key; this row carries
// everything the library and coach views query on.
type Video struct {
	ID        string
	OwnerID   string
	Name      string
	Key       string
	URL       string
	Rating    *int
	Club      string
	ShotType  string
	Notes     string
	Favorite  bool
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessGrant authorizes a coach email to view a player's videos.
type AccessGrant struct {
	ID         string
	PlayerID   string
	CoachEmail string
	CreatedAt  time.Time
}

// Session is the identity read from the hosted auth provider's access
// token. This service never issues sessions, it only reads them.
type Session struct {
	UserID string
	Email  string
}

// ObjectInfo describes a stored object returned by a bucket listing.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// UploadCredential is the result of presigning an upload. Fields is
// populated only for the form-POST variant.
type UploadCredential struct {
	Key       string
	URL       string
	Fields    map[string]string
	PublicURL string
	ExpiresAt time.Time
}
