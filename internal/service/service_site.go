package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-protected-text/internal/adapter"
	"github.com/MKhiriev/go-protected-text/internal/document"
	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/internal/store"
	"github.com/MKhiriev/go-protected-text/internal/utils"
	"github.com/MKhiriev/go-protected-text/models"
)

type siteService struct {
	adapter   adapter.ServerAdapter
	snapshots store.SnapshotRepository
	docOpts   []document.Option
	ids       *utils.UUIDGenerator
	now       func() time.Time
}

// NewSiteService wires a [SiteService]. storages may be nil or hold a nil
// snapshot repository, in which case nothing is cached.
func NewSiteService(serverAdapter adapter.ServerAdapter, storages *store.ClientStorages, opts ...document.Option) SiteService {
	s := &siteService{
		adapter: serverAdapter,
		docOpts: opts,
		ids:     utils.NewUUIDGenerator(),
		now:     time.Now,
	}
	if storages != nil {
		s.snapshots = storages.SnapshotRepository
	}
	return s
}

func (s *siteService) Get(ctx context.Context, name string) (*document.Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptySiteName
	}

	resp, err := s.adapter.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch site: %w", mapAdapterError(err))
	}

	doc := document.New(name, resp.EncryptedContent, resp.IsNew, resp.CurrentDBVersion, resp.ExpectedDBVersion, s.docOpts...)
	s.cache(ctx, doc, doc.EncryptedContent())

	return doc, nil
}

func (s *siteService) Open(ctx context.Context, name, password string) (*document.Unlocked, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !doc.Exists() {
		return nil, ErrSiteNotFound
	}

	site, err := doc.Unlock(password)
	if err != nil {
		logger.FromContext(ctx).ForSite(name).Debug().
			Str("func", "siteService.Open").
			Err(err).
			Msg("unlock failed")
		return nil, fmt.Errorf("unlock site: %w", err)
	}

	return site, nil
}

func (s *siteService) Create(ctx context.Context, name, password string, tabs ...string) (*document.Unlocked, error) {
	ctx = s.traced(ctx)

	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if doc.Exists() {
		return nil, ErrSiteAlreadyExists
	}

	site, err := doc.Unlocked()
	if err != nil {
		return nil, fmt.Errorf("prepare new site: %w", err)
	}
	if err = site.SetPassword(password); err != nil {
		return nil, fmt.Errorf("set password: %w", err)
	}

	// auto-save if any content
	if len(tabs) == 0 {
		return site, nil
	}
	if err = site.UpdateTabs(tabs); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err = s.Save(ctx, site); err != nil {
		return nil, err
	}

	return site, nil
}

func (s *siteService) Save(ctx context.Context, site *document.Unlocked) error {
	if site == nil {
		return ErrNilSite
	}
	if site.Password() == "" {
		return document.ErrPasswordRequired
	}
	// tokens and blob are read once and must describe the same content
	rev := site.Revision()
	if rev.EncryptedContent == "" {
		return ErrEmptyContent
	}

	log := logger.FromContext(ctx).ForSite(site.Name())

	resp, err := s.adapter.Save(ctx, models.SaveRequest{
		Name:               site.Name(),
		InitHashContent:    rev.InitToken,
		CurrentHashContent: rev.CurrentToken,
		EncryptedContent:   rev.EncryptedContent,
	})
	if err != nil {
		log.Err(err).Str("func", "siteService.Save").Msg("save rejected")
		return fmt.Errorf("save site: %w", mapAdapterError(err))
	}
	log.Debug().Str("func", "siteService.Save").Str("status", resp.Status).Msg("site saved")

	site.MarkSaved(rev.CurrentToken)
	s.cache(ctx, site.Document(), rev.EncryptedContent)

	return nil
}

func (s *siteService) Delete(ctx context.Context, site *document.Unlocked) error {
	if site == nil {
		return ErrNilSite
	}
	if !site.Document().Exists() {
		return ErrSiteNotFound
	}

	log := logger.FromContext(ctx).ForSite(site.Name())

	resp, err := s.adapter.Delete(ctx, models.DeleteRequest{
		Name:            site.Name(),
		InitHashContent: site.InitToken(),
	})
	if err != nil {
		log.Err(err).Str("func", "siteService.Delete").Msg("delete rejected")
		return fmt.Errorf("delete site: %w", mapAdapterError(err))
	}
	log.Debug().Str("func", "siteService.Delete").Str("status", resp.Status).Msg("site deleted")

	site.MarkDeleted()
	s.forget(ctx, site.Name())

	return nil
}

func (s *siteService) Destroy(ctx context.Context, name, password string) error {
	ctx = s.traced(ctx)

	site, err := s.Open(ctx, name, password)
	if err != nil {
		return err
	}
	return s.Delete(ctx, site)
}

func (s *siteService) Snapshot(ctx context.Context, name string) (*document.Document, error) {
	if s.snapshots == nil {
		return nil, ErrCacheDisabled
	}

	snapshot, err := s.snapshots.GetSnapshot(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return document.New(
		snapshot.Name,
		snapshot.EncryptedContent,
		snapshot.IsNew,
		snapshot.CurrentDBVersion,
		snapshot.ExpectedDBVersion,
		s.docOpts...,
	), nil
}

func (s *siteService) Recent(ctx context.Context) ([]string, error) {
	if s.snapshots == nil {
		return nil, ErrCacheDisabled
	}

	snapshots, err := s.snapshots.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	names := make([]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.IsNew {
			continue
		}
		names = append(names, snapshot.Name)
	}
	return names, nil
}

// traced tags ctx with one request id, so every remote call made by a
// single operation shares it. An id already present in ctx is kept.
func (s *siteService) traced(ctx context.Context) context.Context {
	if _, ok := utils.GetRequestIDFromContext(ctx); ok {
		return ctx
	}

	requestID := s.ids.Generate()
	log := logger.FromContext(ctx).With().Str("request_id", requestID).Logger()
	return log.WithContext(utils.WithRequestID(ctx, requestID))
}

// cache stores blob as the snapshot of doc. Cache failures never fail the
// caller.
func (s *siteService) cache(ctx context.Context, doc *document.Document, blob string) {
	if s.snapshots == nil {
		return
	}
	if !doc.Exists() {
		s.forget(ctx, doc.Name())
		return
	}

	err := s.snapshots.SaveSnapshot(ctx, models.Snapshot{
		Name:              doc.Name(),
		EncryptedContent:  blob,
		IsNew:             doc.IsNew(),
		CurrentDBVersion:  doc.CurrentDBVersion(),
		ExpectedDBVersion: doc.ExpectedDBVersion(),
		FetchedAt:         s.now().UTC(),
	})
	if err != nil {
		logger.FromContext(ctx).ForSite(doc.Name()).Warn().
			Str("func", "siteService.cache").
			Err(err).
			Msg("failed to cache snapshot")
	}
}

func (s *siteService) forget(ctx context.Context, name string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.DeleteSnapshot(ctx, name); err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
		logger.FromContext(ctx).ForSite(name).Warn().
			Str("func", "siteService.forget").
			Err(err).
			Msg("failed to drop snapshot")
	}
}
