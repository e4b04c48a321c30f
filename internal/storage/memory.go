package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"evoimage/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.Run
	champions   map[string][]model.ChampionRecord
	history     map[string][]model.FitnessPoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.Run)
	s.champions = make(map[string][]model.ChampionRecord)
	s.history = make(map[string][]model.FitnessPoint)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}

// SaveChampion keeps one record per generation, replacing an earlier record
// for the same generation.
func (s *MemoryStore) SaveChampion(_ context.Context, record model.ChampionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	record.Document = append([]byte(nil), record.Document...)
	records := s.champions[record.RunID]
	idx := sort.Search(len(records), func(i int) bool {
		return records[i].Generation >= record.Generation
	})
	if idx < len(records) && records[idx].Generation == record.Generation {
		records[idx] = record
	} else {
		records = append(records, model.ChampionRecord{})
		copy(records[idx+1:], records[idx:])
		records[idx] = record
	}
	s.champions[record.RunID] = records
	return nil
}

func (s *MemoryStore) GetLatestChampion(_ context.Context, runID string) (model.ChampionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.champions[runID]
	if len(records) == 0 {
		return model.ChampionRecord{}, false, nil
	}
	return copyChampion(records[len(records)-1]), true, nil
}

func (s *MemoryStore) ListChampions(_ context.Context, runID string) ([]model.ChampionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.champions[runID]
	copied := make([]model.ChampionRecord, 0, len(records))
	for _, record := range records {
		copied = append(copied, copyChampion(record))
	}
	return copied, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []model.FitnessPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.history[runID] = append([]model.FitnessPoint(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]model.FitnessPoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.FitnessPoint(nil), history...), true, nil
}

func copyChampion(record model.ChampionRecord) model.ChampionRecord {
	record.Document = append([]byte(nil), record.Document...)
	return record
}
