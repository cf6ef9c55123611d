package vectorindex

import (
	"context"
	"sort"
	"sync"

	"ai-search-be/pkg/embedding"
)

// MemoryProvider is a brute-force in-process index for development and tests.
type MemoryProvider struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{records: make(map[string]Record)}
}

func (m *MemoryProvider) Upsert(ctx context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[r.Id] = Record{
			Id:       r.Id,
			Values:   append([]float32(nil), r.Values...),
			Metadata: copyMeta(r.Metadata),
		}
	}
	return nil
}

func (m *MemoryProvider) Query(ctx context.Context, vector []float32, opts QueryOptions) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.records))
	for _, r := range m.records {
		if !matchesFilter(r.Metadata, opts.Filter) {
			continue
		}
		score, err := embedding.CosineSimilarity(vector, r.Values)
		if err != nil {
			continue
		}
		match := Match{Id: r.Id, Score: score}
		if opts.ReturnMetadata {
			match.Metadata = copyMeta(r.Metadata)
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Id < matches[j].Id
		}
		return matches[i].Score > matches[j].Score
	})
	if opts.TopK > 0 && len(matches) > opts.TopK {
		matches = matches[:opts.TopK]
	}
	return matches, nil
}

func (m *MemoryProvider) DeleteByIds(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.records, id)
	}
	return nil
}

func (m *MemoryProvider) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryProvider) Get(id string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	return r, ok
}

// MemoryRefStore keeps content to chunk id refs in memory.
type MemoryRefStore struct {
	mu   sync.Mutex
	refs map[string]map[string]struct{}
}

func NewMemoryRefStore() *MemoryRefStore {
	return &MemoryRefStore{refs: make(map[string]map[string]struct{})}
}

func (s *MemoryRefStore) AddChunkRefs(ctx context.Context, contentId string, chunkIds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.refs[contentId]
	if !ok {
		set = make(map[string]struct{})
		s.refs[contentId] = set
	}
	for _, id := range chunkIds {
		set[id] = struct{}{}
	}
	return nil
}

func (s *MemoryRefStore) FindChunkIds(ctx context.Context, contentId string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.refs[contentId]))
	for id := range s.refs[contentId] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryRefStore) RemoveChunkRefs(ctx context.Context, chunkIds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for contentId, set := range s.refs {
		for _, id := range chunkIds {
			delete(set, id)
		}
		if len(set) == 0 {
			delete(s.refs, contentId)
		}
	}
	return nil
}

func matchesFilter(meta map[string]any, filter map[string][]string) bool {
	for key, allowed := range filter {
		if len(allowed) == 0 {
			continue
		}
		v, _ := meta[key].(string)
		found := false
		for _, a := range allowed {
			if a == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
