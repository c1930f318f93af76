package domain

import "time"

// Session is an active login. Key is the opaque bearer token the client
// presents in the Session-Key header. A session references its user weakly:
// nothing about the user's lifecycle is owned here.
type Session struct {
	Key       string
	UserID    int64
	ExpiresAt time.Time
}
