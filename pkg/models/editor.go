package models

import "time"

// EditorProfileTTL is how long a cached profile is considered fresh.
const EditorProfileTTL = 120 * time.Minute

// EditorProfile caches what the engine knows about one editor on one wiki.
// Populated by the ingestion collaborator; the engine treats it as read-only
// and must tolerate its absence for unknown editors.
type EditorProfile struct {
	WikiCode        string    `json:"wiki_code"`
	Username        string    `json:"username"`
	UserGroups      []string  `json:"usergroups,omitempty"`
	IsBlocked       bool      `json:"is_blocked"`
	IsBot           bool      `json:"is_bot"`
	IsFormerBot     bool      `json:"is_former_bot"`
	IsAutopatrolled bool      `json:"is_autopatrolled"`
	IsAutoreviewed  bool      `json:"is_autoreviewed"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// IsExpired reports whether the profile is older than EditorProfileTTL.
func (p *EditorProfile) IsExpired() bool {
	return p.FetchedAt.Before(time.Now().Add(-EditorProfileTTL))
}
