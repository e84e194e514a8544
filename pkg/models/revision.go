package models

import "time"

// PendingPage is a page that currently has revisions awaiting review.
type PendingPage struct {
	WikiCode     string     `json:"wiki_code"`
	PageID       int64      `json:"pageid"`
	Title        string     `json:"title"`
	StableRevID  int64      `json:"stable_revid"`
	PendingSince *time.Time `json:"pending_since,omitempty"`
	Categories   []string   `json:"categories,omitempty"`
}

// PendingRevision is an immutable snapshot of one edit, as cached from the
// wiki by the ingestion collaborator. The engine never mutates it.
type PendingRevision struct {
	PageID       int64     `json:"pageid"`
	RevID        int64     `json:"revid"`
	ParentID     int64     `json:"parentid,omitempty"`
	UserName     string    `json:"user_name"`
	UserID       int64     `json:"user_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	SHA1         string    `json:"sha1"`
	Comment      string    `json:"comment,omitempty"`
	Wikitext     string    `json:"wikitext"`
	RenderedHTML string    `json:"rendered_html,omitempty"`
	Categories   []string  `json:"categories,omitempty"`

	// ChangeTags and ChangeTagParams come from the change_tag tables; params
	// are raw JSON strings keyed by position, matching the source rows.
	ChangeTags      []string `json:"change_tags,omitempty"`
	ChangeTagParams []string `json:"change_tag_params,omitempty"`

	// Metadata is the open bag of provider-specific fields recorded at
	// ingestion time (recent-changes bot flag, user groups at edit time).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsBotEdit reports whether the source marked this edit as made by a bot.
func (r *PendingRevision) IsBotEdit() bool {
	if r.Metadata == nil {
		return false
	}
	switch v := r.Metadata["rc_bot"].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// RecordedUserGroups returns the editor's group memberships as recorded with
// the edit, if the ingestion source provided them.
func (r *PendingRevision) RecordedUserGroups() []string {
	if r.Metadata == nil {
		return nil
	}
	raw, ok := r.Metadata["user_groups"].([]any)
	if !ok {
		if typed, ok := r.Metadata["user_groups"].([]string); ok {
			return typed
		}
		return nil
	}
	groups := make([]string, 0, len(raw))
	for _, g := range raw {
		if s, ok := g.(string); ok && s != "" {
			groups = append(groups, s)
		}
	}
	return groups
}

// ReviewedContent is one row of the reviewed-by-content-hash lookup: a
// content hash that an already-reviewed revision carried.
type ReviewedContent struct {
	SHA1            string `json:"sha1"`
	PageID          int64  `json:"page_id"`
	MaxReviewedID   int64  `json:"max_reviewed_id"`
	MaxReviewableID int64  `json:"max_reviewable_id"`
}
