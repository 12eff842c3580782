package domain

import "time"

// UserRecord is the audit record written when someone authenticates. It is
// keyed either by username (login) or by access token (exchange) and carries
// a synthetic user id; it plays no part in authorization decisions.
type UserRecord struct {
	Key             string
	Username        string
	UserID          string
	AuthenticatedAt time.Time
}
