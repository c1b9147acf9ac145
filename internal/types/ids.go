package types

import (
	"time"

	"github.com/google/uuid"
)

// DecisionID identifies one served show/hide decision in logs and responses.
type DecisionID string

// NewDecisionID generates a UUIDv7 decision identifier.
// Time-ordered IDs keep decision logs sortable by issue time.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewDecisionID() DecisionID {
	return DecisionID(uuid.Must(uuid.NewV7()).String())
}

// ParseDecisionID validates and converts a string to DecisionID.
func ParseDecisionID(s string) (DecisionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return DecisionID(s), nil
}

// DecisionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func DecisionIDTime(id DecisionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
