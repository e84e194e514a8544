// Package stores holds the in-memory working set the review engine
// operates on: wikis, their configurations, ingested pending pages and
// revisions, and cached editor profiles. The ingestion collaborator
// writes here; the engine reads.
package stores

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// WikiStore tracks the wikis known to the engine.
type WikiStore struct {
	mu    sync.RWMutex
	wikis map[string]models.Wiki
}

// NewWikiStore creates an empty WikiStore.
func NewWikiStore() *WikiStore {
	return &WikiStore{wikis: make(map[string]models.Wiki)}
}

// Get returns the wiki registered under code.
func (s *WikiStore) Get(code string) (models.Wiki, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wiki, ok := s.wikis[code]
	if !ok {
		return models.Wiki{}, fmt.Errorf("wiki %q: %w", code, apperrors.ErrNotFound)
	}
	return wiki, nil
}

// Upsert registers or replaces a wiki.
func (s *WikiStore) Upsert(wiki models.Wiki) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wikis[wiki.Code] = wiki
}

// List returns all registered wikis ordered by code.
func (s *WikiStore) List() []models.Wiki {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wikis := make([]models.Wiki, 0, len(s.wikis))
	for _, wiki := range s.wikis {
		wikis = append(wikis, wiki)
	}
	sort.Slice(wikis, func(i, j int) bool { return wikis[i].Code < wikis[j].Code })
	return wikis
}

// ConfigStore tracks per-wiki review configurations.
type ConfigStore struct {
	mu      sync.RWMutex
	configs map[string]models.WikiConfiguration
}

// NewConfigStore creates an empty ConfigStore.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{configs: make(map[string]models.WikiConfiguration)}
}

// Get returns the configuration for a wiki.
func (s *ConfigStore) Get(wikiCode string) (models.WikiConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	config, ok := s.configs[wikiCode]
	if !ok {
		return models.WikiConfiguration{}, fmt.Errorf("configuration for %q: %w", wikiCode, apperrors.ErrNotFound)
	}
	return config, nil
}

// Save stores a configuration keyed by its wiki code.
func (s *ConfigStore) Save(config models.WikiConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[config.WikiCode] = config
}

// SetRedirectAliases writes back lazily fetched redirect aliases.
func (s *ConfigStore) SetRedirectAliases(wikiCode string, aliases []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[wikiCode]
	if !ok {
		return
	}
	config.RedirectAliases = aliases
	s.configs[wikiCode] = config
}

type revisionKey struct {
	wikiCode string
	revID    int64
}

type pageKey struct {
	wikiCode string
	pageID   int64
}

// RevisionStore holds ingested pending pages and their revisions.
type RevisionStore struct {
	mu        sync.RWMutex
	pages     map[pageKey]models.PendingPage
	revisions map[revisionKey]models.PendingRevision
	byPage    map[pageKey][]int64
}

// NewRevisionStore creates an empty RevisionStore.
func NewRevisionStore() *RevisionStore {
	return &RevisionStore{
		pages:     make(map[pageKey]models.PendingPage),
		revisions: make(map[revisionKey]models.PendingRevision),
		byPage:    make(map[pageKey][]int64),
	}
}

// SavePage stores a pending page.
func (s *RevisionStore) SavePage(wikiCode string, page models.PendingPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[pageKey{wikiCode, page.PageID}] = page
}

// GetPage returns a pending page.
func (s *RevisionStore) GetPage(wikiCode string, pageID int64) (models.PendingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[pageKey{wikiCode, pageID}]
	if !ok {
		return models.PendingPage{}, fmt.Errorf("page %d on %q: %w", pageID, wikiCode, apperrors.ErrNotFound)
	}
	return page, nil
}

// SaveRevision stores a pending revision and indexes it under its page.
func (s *RevisionStore) SaveRevision(wikiCode string, rev models.PendingRevision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := revisionKey{wikiCode, rev.RevID}
	if _, exists := s.revisions[key]; !exists {
		pk := pageKey{wikiCode, rev.PageID}
		s.byPage[pk] = append(s.byPage[pk], rev.RevID)
	}
	s.revisions[key] = rev
}

// GetRevision returns a single pending revision.
func (s *RevisionStore) GetRevision(wikiCode string, revID int64) (models.PendingRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rev, ok := s.revisions[revisionKey{wikiCode, revID}]
	if !ok {
		return models.PendingRevision{}, fmt.Errorf("revision %d on %q: %w", revID, wikiCode, apperrors.ErrNotFound)
	}
	return rev, nil
}

// PendingRevisions returns a page's pending revisions ordered oldest
// first by revision id.
func (s *RevisionStore) PendingRevisions(wikiCode string, pageID int64) []models.PendingRevision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byPage[pageKey{wikiCode, pageID}]
	revs := make([]models.PendingRevision, 0, len(ids))
	for _, id := range ids {
		revs = append(revs, s.revisions[revisionKey{wikiCode, id}])
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].RevID < revs[j].RevID })
	return revs
}

// ProfileStore caches editor profiles with a freshness window.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.EditorProfile
}

// NewProfileStore creates an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]models.EditorProfile)}
}

func profileKey(wikiCode, username string) string {
	return wikiCode + "|" + username
}

// Get returns a fresh profile for the user, or false when the profile
// is unknown or stale.
func (s *ProfileStore) Get(wikiCode, username string) (models.EditorProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[profileKey(wikiCode, username)]
	if !ok || profile.IsExpired() {
		return models.EditorProfile{}, false
	}
	return profile, true
}

// Save stores a profile.
func (s *ProfileStore) Save(profile models.EditorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey(profile.WikiCode, profile.Username)] = profile
}
