package models

import "time"

// PresenceRecord is the single stored heartbeat snapshot for a user.
type PresenceRecord struct {
	UserID     string    `json:"userId"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// OnlineUser is a fresh presence record enriched with directory data.
type OnlineUser struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

type PresenceList struct {
	Count     int          `json:"count"`
	Users     []OnlineUser `json:"users"`
	Timestamp time.Time    `json:"timestamp"`
}

// Fresh reports whether the record counts as online at now for the given window.
// A record exactly window old is still fresh.
func (p PresenceRecord) Fresh(now time.Time, window time.Duration) bool {
	return !p.LastSeenAt.Before(now.Add(-window))
}
