package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/entity"
	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/specification"
	"ai-search-be/internal/repository/unitofwork"
	"ai-search-be/pkg/rag/search"
	"ai-search-be/pkg/vectorindex"
)

var errStore = errors.New("store unavailable")

// fakeStore backs every fake repository. Content specs are evaluated in
// memory by type so services can be tested without a database.
type fakeStore struct {
	mu sync.Mutex

	contents    []*entity.Content
	collections []*entity.Collection
	settings    map[string]*entity.AISearchSettings
	statuses    map[string]*entity.IndexStatus
	statusLog   []entity.IndexStatus
	history     []*entity.SearchHistory
	titles      []string

	contentErr  error
	titlesErr   error
	historyErr  error
	settingsErr error

	contentCalls int
	chunkCalls   int
	historyReads int
	lastSpecs    []specification.Specification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings: make(map[string]*entity.AISearchSettings),
		statuses: make(map[string]*entity.IndexStatus),
	}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: s}
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) ContentRepository() contract.ContentRepository {
	return &fakeContentRepo{u.store}
}
func (u *fakeUoW) CollectionRepository() contract.CollectionRepository {
	return &fakeCollectionRepo{u.store}
}
func (u *fakeUoW) SettingsRepository() contract.SettingsRepository {
	return &fakeSettingsRepo{u.store}
}
func (u *fakeUoW) IndexStatusRepository() contract.IndexStatusRepository {
	return &fakeStatusRepo{u.store}
}
func (u *fakeUoW) SearchHistoryRepository() contract.SearchHistoryRepository {
	return &fakeHistoryRepo{u.store}
}
func (u *fakeUoW) ContentChunkRepository() contract.ContentChunkRepository {
	return &fakeChunkRepo{MemoryProvider: vectorindex.NewMemoryProvider(), store: u.store}
}
func (u *fakeUoW) ContentChunkRefRepository() contract.ContentChunkRefRepository {
	return vectorindex.NewMemoryRefStore()
}

type fakeContentRepo struct{ s *fakeStore }

func (r *fakeContentRepo) Create(ctx context.Context, c *entity.Content) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contents = append(r.s.contents, c)
	return nil
}

func (r *fakeContentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeContentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contentCalls++
	r.s.lastSpecs = specs
	if r.s.contentErr != nil {
		return nil, r.s.contentErr
	}

	var out []*entity.Content
	for _, c := range r.s.contents {
		if matchContent(c, specs) {
			out = append(out, c)
		}
	}

	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.OrderBy:
			sort.SliceStable(out, func(i, j int) bool {
				if sp.Desc {
					return out[i].UpdatedAt.After(out[j].UpdatedAt)
				}
				return out[i].UpdatedAt.Before(out[j].UpdatedAt)
			})
		case specification.Pagination:
			if sp.Offset >= len(out) {
				out = nil
			} else {
				out = out[sp.Offset:]
			}
			if sp.Limit > 0 && len(out) > sp.Limit {
				out = out[:sp.Limit]
			}
		}
	}
	return out, nil
}

func (r *fakeContentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contentCalls++
	if r.s.contentErr != nil {
		return 0, r.s.contentErr
	}
	var n int64
	for _, c := range r.s.contents {
		if matchContent(c, specs) {
			n++
		}
	}
	return n, nil
}

func (r *fakeContentRepo) ListPublished(ctx context.Context, collectionId string) ([]*entity.Content, error) {
	return r.FindAll(ctx, specification.ByCollectionID{CollectionID: collectionId}, specification.Published{})
}

func (r *fakeContentRepo) FindById(ctx context.Context, id string) (*entity.Content, error) {
	return r.FindOne(ctx, specification.ContentByID{ID: id})
}

func (r *fakeContentRepo) FindByIds(ctx context.Context, ids []string) ([]*entity.Content, error) {
	return r.FindAll(ctx, specification.ContentByIDs{IDs: ids})
}

func matchContent(c *entity.Content, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ContentSearchQuery:
			q := strings.ToLower(sp.Query)
			if !strings.Contains(strings.ToLower(c.Title), q) &&
				!strings.Contains(strings.ToLower(c.Slug), q) &&
				!strings.Contains(strings.ToLower(c.Data), q) {
				return false
			}
		case specification.ContentByID:
			if c.Id != sp.ID {
				return false
			}
		case specification.ContentByIDs:
			if !contains(sp.IDs, c.Id) {
				return false
			}
		case specification.ByCollectionID:
			if c.CollectionId != sp.CollectionID {
				return false
			}
		case specification.ByCollectionIDs:
			if !contains(sp.CollectionIDs, c.CollectionId) {
				return false
			}
		case specification.ByStatuses:
			if !contains(sp.Statuses, c.Status) {
				return false
			}
		case specification.ExcludeStatus:
			if c.Status == sp.Status {
				return false
			}
		case specification.Published:
			if c.Status != entity.ContentStatusPublished {
				return false
			}
		case specification.ByAuthor:
			if c.AuthorId != sp.AuthorID {
				return false
			}
		case specification.ByDateRange:
			ts := c.UpdatedAt
			if sp.Field == "created_at" {
				ts = c.CreatedAt
			}
			if !sp.Start.IsZero() && ts.Before(sp.Start) {
				return false
			}
			if !sp.End.IsZero() && ts.After(sp.End) {
				return false
			}
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

type fakeCollectionRepo struct{ s *fakeStore }

func (r *fakeCollectionRepo) Create(ctx context.Context, c *entity.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.collections = append(r.s.collections, c)
	return nil
}

func (r *fakeCollectionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collection, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeCollectionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Collection
	for _, c := range r.s.collections {
		keep := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				keep = keep && c.Id == sp.ID
			case specification.ActiveCollections:
				keep = keep && c.IsActive
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	for _, spec := range specs {
		if _, ok := spec.(specification.OrderBy); ok {
			sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
		}
	}
	return out, nil
}

type fakeSettingsRepo struct{ s *fakeStore }

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (*entity.AISearchSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settingsErr != nil {
		return nil, r.s.settingsErr
	}
	v, ok := r.s.settings[key]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeSettingsRepo) Set(ctx context.Context, key string, settings *entity.AISearchSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *settings
	r.s.settings[key] = &cp
	return nil
}

type fakeStatusRepo struct{ s *fakeStore }

func (r *fakeStatusRepo) FindByCollectionId(ctx context.Context, collectionId string) (*entity.IndexStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.statuses[collectionId]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeStatusRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.IndexStatus, 0, len(r.s.statuses))
	for _, v := range r.s.statuses {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeStatusRepo) Upsert(ctx context.Context, status *entity.IndexStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *status
	r.s.statuses[status.CollectionId] = &cp
	r.s.statusLog = append(r.s.statusLog, cp)
	return nil
}

type fakeHistoryRepo struct{ s *fakeStore }

func (r *fakeHistoryRepo) Create(ctx context.Context, h *entity.SearchHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.history = append(r.s.history, h)
	return nil
}

func (r *fakeHistoryRepo) FindDistinctQueries(ctx context.Context, partial string, limit int) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.historyReads++
	if r.s.historyErr != nil {
		return nil, r.s.historyErr
	}
	seen := map[string]bool{}
	var out []string
	for i := len(r.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		q := r.s.history[i].Query
		if strings.Contains(strings.ToLower(q), strings.ToLower(partial)) && !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) since(since time.Time) []*entity.SearchHistory {
	var out []*entity.SearchHistory
	for _, h := range r.s.history {
		if !h.CreatedAt.Before(since) {
			out = append(out, h)
		}
	}
	return out
}

func (r *fakeHistoryRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.since(since))), nil
}

func (r *fakeHistoryRepo) CountByModeSince(ctx context.Context, since time.Time) (map[entity.SearchMode]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.SearchMode]int64{}
	for _, h := range r.since(since) {
		out[h.Mode]++
	}
	return out, nil
}

func (r *fakeHistoryRepo) PopularSince(ctx context.Context, since time.Time, limit int) ([]entity.PopularQuery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for _, h := range r.since(since) {
		counts[h.Query]++
	}
	out := make([]entity.PopularQuery, 0, len(counts))
	for q, n := range counts {
		out = append(out, entity.PopularQuery{Query: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Query < out[j].Query
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeHistoryRepo) AverageQueryTimeSince(ctx context.Context, since time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.since(since)
	if len(rows) == 0 {
		return 0, nil
	}
	var sum int64
	for _, h := range rows {
		sum += h.QueryTimeMs
	}
	return float64(sum) / float64(len(rows)), nil
}

type fakeChunkRepo struct {
	*vectorindex.MemoryProvider
	store *fakeStore
}

func (r *fakeChunkRepo) FindDistinctTitles(ctx context.Context, partial string, limit int) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.chunkCalls++
	if r.store.titlesErr != nil {
		return nil, r.store.titlesErr
	}
	var out []string
	for _, t := range r.store.titles {
		if strings.Contains(strings.ToLower(t), strings.ToLower(partial)) {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChunkRepo) CountByCollection(ctx context.Context, collectionId string) (int64, error) {
	return 0, nil
}

type recordingJobs struct {
	mu   sync.Mutex
	jobs []dto.IndexJobMessage
	err  error
}

func (p *recordingJobs) Publish(ctx context.Context, payload any) error {
	return p.err
}

func (p *recordingJobs) PublishIndexJob(ctx context.Context, job dto.IndexJobMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return p.err
}

func (p *recordingJobs) Jobs() []dto.IndexJobMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.IndexJobMessage(nil), p.jobs...)
}

type stubIndexer struct {
	mu        sync.Mutex
	available bool
	result    *search.IndexResult
	err       error
	block     chan struct{}
	started   chan struct{}
	startOnce sync.Once
	calls     int
	updated   []string
	removed   []string
}

func (i *stubIndexer) Available() bool { return i.available }

func (i *stubIndexer) IndexCollection(ctx context.Context, collectionId string) (*search.IndexResult, error) {
	i.mu.Lock()
	i.calls++
	i.mu.Unlock()
	if i.started != nil {
		i.startOnce.Do(func() { close(i.started) })
	}
	if i.block != nil {
		<-i.block
	}
	return i.result, i.err
}

func (i *stubIndexer) UpdateContentIndex(ctx context.Context, contentId string) error {
	i.updated = append(i.updated, contentId)
	return i.err
}

func (i *stubIndexer) RemoveContent(ctx context.Context, contentId string) error {
	i.removed = append(i.removed, contentId)
	return i.err
}

type recordingEvents struct {
	completed []entity.IndexStatus
	failed    []entity.IndexStatus
}

func (e *recordingEvents) PublishIndexCompleted(ctx context.Context, status entity.IndexStatus) {
	e.completed = append(e.completed, status)
}

func (e *recordingEvents) PublishIndexFailed(ctx context.Context, status entity.IndexStatus) {
	e.failed = append(e.failed, status)
}

type fixedSettings struct {
	settings entity.AISearchSettings
}

func (f *fixedSettings) Current(ctx context.Context) entity.AISearchSettings { return f.settings }
func (f *fixedSettings) GetSettings(ctx context.Context) (*dto.AISearchSettingsResponse, error) {
	return nil, nil
}
func (f *fixedSettings) UpdateSettings(ctx context.Context, req *dto.UpdateAISearchSettingsRequest) (*dto.AISearchSettingsResponse, error) {
	return nil, nil
}
