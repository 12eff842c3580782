package domain

import "time"

// Client is the registered OAuth client metadata. Records are immutable after
// registration; re-registering the same client_id overwrites the old record.
type Client struct {
	ID           string
	Name         string
	RedirectURIs []string
	CreatedAt    time.Time
}

// DisplayName returns the client's human-facing name, or a placeholder for
// clients that registered without one (or are missing entirely).
func (c Client) DisplayName() string {
	if c.Name == "" {
		return UnknownClientName
	}
	return c.Name
}

// UnknownClientName is shown on consent screens when the client record is
// absent or carries no display name.
const UnknownClientName = "Unknown Application"
