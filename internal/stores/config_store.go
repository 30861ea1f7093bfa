package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"context"
	"sync"
)

const KindSiteInfo = "site-info"

// ConfigStore holds the site-wide configuration document and a per-page
// content cache. Pages load once each; the mutex spans the fetch so
// concurrent loads of the same document coalesce.
type ConfigStore struct {
	fetcher content.Fetcher
	logger  providers.Logger

	mu       sync.Mutex
	siteInfo models.SiteInfo
	pages    map[string]models.PageContent
	dirty    bool
	loadErr  string
}

func NewConfigStore(fetcher content.Fetcher, logger providers.Logger) *ConfigStore {
	return &ConfigStore{
		fetcher: fetcher,
		logger:  logger,
		pages:   make(map[string]models.PageContent),
	}
}

func (s *ConfigStore) LoadSiteInfo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.siteInfo != nil {
		return nil
	}

	s.loadErr = ""
	var info models.SiteInfo
	if err := s.fetcher.FetchJSON(ctx, content.PathSiteInfo, &info); err != nil {
		s.loadErr = err.Error()
		s.logger.Errorf(providers.TypeContent, "Loading site info failed: %s", err)
		return err
	}
	s.siteInfo = info
	s.logger.Infof(providers.TypeContent, "Loaded site info")
	return nil
}

func (s *ConfigStore) SiteInfo() (models.SiteInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.siteInfo == nil {
		return nil, false
	}
	return s.siteInfo, true
}

// Page returns the content document for a page id, fetching it on first
// use and serving the cached copy afterwards.
func (s *ConfigStore) Page(ctx context.Context, pageID string) (models.PageContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page, ok := s.pages[pageID]; ok {
		return page, nil
	}

	var page models.PageContent
	if err := s.fetcher.FetchJSON(ctx, content.PagePath(pageID), &page); err != nil {
		s.loadErr = err.Error()
		s.logger.Errorf(providers.TypeContent, "Loading page %q failed: %s", pageID, err)
		return nil, err
	}
	s.pages[pageID] = page
	return page, nil
}

// UpdateSiteInfo merges the given fields into the site configuration
// and marks the store dirty. No-op until the site info is loaded.
func (s *ConfigStore) UpdateSiteInfo(fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.siteInfo == nil {
		return
	}
	for k, v := range fields {
		s.siteInfo[k] = v
	}
	s.dirty = true
}

func (s *ConfigStore) UpdatePage(pageID string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[pageID]
	if !ok {
		return
	}
	for k, v := range fields {
		page[k] = v
	}
	s.dirty = true
}

func (s *ConfigStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *ConfigStore) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

func (s *ConfigStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *ConfigStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.siteInfo = nil
	s.pages = make(map[string]models.PageContent)
	s.dirty = false
	s.loadErr = ""
}
