package stub

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/recordstore"
)

const rejectReason = "rejected by stub"

type runState struct {
	records    map[string]domain.Event
	batches    int
	rejects    int
	outages    int
	duplicates int
}

func newRunState() *runState {
	return &runState{records: make(map[string]domain.Event)}
}

// RecordStorage is an in-memory remote record store partitioned by load-test
// run id.
type RecordStorage struct {
	mu       sync.Mutex
	runs     map[string]*runState
	failures FailureConfig
	rng      *rand.Rand
}

func NewRecordStorage(seed uint64) *RecordStorage {
	return &RecordStorage{
		runs: make(map[string]*runState),
		rng:  rand.New(rand.NewPCG(seed, seed)),
	}
}

func (s *RecordStorage) run(runID string) *runState {
	r, ok := s.runs[runID]
	if !ok {
		r = newRunState()
		s.runs[runID] = r
	}
	return r
}

func (s *RecordStorage) SetFailures(cfg FailureConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = cfg
}

func (s *RecordStorage) Failures() FailureConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// SaveBatch stores records and returns one result per record. ok is false
// during an injected outage.
func (s *RecordStorage) SaveBatch(runID string, records []domain.Event) ([]recordstore.RecordResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run(runID)
	r.batches++

	if s.failures.Outage {
		r.outages++
		return nil, false
	}

	results := make([]recordstore.RecordResult, 0, len(records))
	for _, record := range records {
		id := record.ID.String()
		if s.rejects(id) {
			r.rejects++
			results = append(results, recordstore.RecordResult{ID: id, Error: rejectReason})
			continue
		}

		if _, exists := r.records[id]; exists {
			r.duplicates++
		}
		r.records[id] = record
		results = append(results, recordstore.RecordResult{ID: id, Success: true})
	}
	return results, true
}

func (s *RecordStorage) rejects(id string) bool {
	if s.failures.RejectPrefix != "" && strings.HasPrefix(id, s.failures.RejectPrefix) {
		return true
	}
	return s.failures.FailureRate > 0 && s.rng.Float64() < s.failures.FailureRate
}

func (s *RecordStorage) Get(runID, id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.run(runID).records[id]
	return record, ok
}

func (s *RecordStorage) DeleteAll(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run(runID).records = make(map[string]domain.Event)
}

func (s *RecordStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}

func (s *RecordStorage) Stats(runID string) StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run(runID)
	return StatsResponse{
		RunID:        runID,
		RecordCount:  len(r.records),
		BatchCount:   r.batches,
		RejectCount:  r.rejects,
		OutageCount:  r.outages,
		DuplicateIDs: r.duplicates,
	}
}
