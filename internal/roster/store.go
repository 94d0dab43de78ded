// Package roster owns the collection of tracked students and the active
// selection. It mirrors every mutation to a Persistence and enriches records
// with AI insights in the background.
package roster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEmptyName is returned by Add when the name is blank.
	ErrEmptyName = errors.New("student name must not be empty")

	// ErrNotFound is used by lookups in outer layers. Store mutations on an
	// unknown id are silent no-ops and never return it.
	ErrNotFound = errors.New("student not found")
)

// DefaultRefreshDelay is how long Update waits before re-requesting an
// insight, letting the update settle first.
const DefaultRefreshDelay = 100 * time.Millisecond

// InsightRequest is the input handed to an InsightProvider.
type InsightRequest struct {
	EngagementData  []EngagementPoint
	AcademicMetrics AcademicMetrics
	Remarks         string
}

// InsightProvider produces an Insight for a student's data.
type InsightProvider interface {
	Insight(ctx context.Context, req InsightRequest) (*Insight, error)
}

// ChangeKind identifies what happened in a Change.
type ChangeKind string

const (
	ChangeLoaded   ChangeKind = "loaded"
	ChangeAdded    ChangeKind = "added"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeSelected ChangeKind = "selected"
	ChangeInsight  ChangeKind = "insight"
)

// Change is delivered to subscribers after the store state changed.
type Change struct {
	Kind      ChangeKind
	StudentID string
}

// Option configures a Store.
type Option func(*Store)

// WithGenerator overrides the synthetic data generator.
func WithGenerator(g *Generator) Option {
	return func(s *Store) { s.gen = g }
}

// WithRefreshDelay overrides the delay before the forced re-enrichment that
// follows an Update.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Store) { s.refreshDelay = d }
}

// WithoutLoadEnrichment stops Load from enriching the restored active
// student. Short-lived callers that only read the roster use it.
func WithoutLoadEnrichment() Option {
	return func(s *Store) { s.loadEnrich = false }
}

// Store is the sole mutator of the student collection and active selection.
// It is safe for concurrent use. Reads return copies; the collection itself
// is replaced wholesale on every mutation.
type Store struct {
	persist      Persistence
	provider     InsightProvider
	gen          *Generator
	logger       *zap.Logger
	refreshDelay time.Duration
	loadEnrich   bool

	mu       sync.Mutex
	students []Student
	activeID string

	listenMu  sync.Mutex
	listeners map[int]func(Change)
	nextID    int

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// New creates an empty Store. Call Load to restore persisted state. A nil
// provider disables enrichment.
func New(persist Persistence, provider InsightProvider, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		persist:      persist,
		provider:     provider,
		logger:       logger,
		refreshDelay: DefaultRefreshDelay,
		loadEnrich:   true,
		listeners:    make(map[int]func(Change)),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(DefaultGeneratorConfig(), nil)
	}
	return s
}

// Load restores the collection and active selection. When nothing was stored
// the seed student is created. A corrupt collection restores as empty. Read
// errors are returned, leaving the store empty but usable.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.persist.Get(ctx, KeyStudents)
	if err != nil {
		return err
	}

	var students []Student
	seeded := false
	switch {
	case !ok:
		students = []Student{s.gen.SeedStudent()}
		seeded = true
	default:
		students, err = DecodeStudents(raw)
		if err != nil {
			s.logger.Warn("stored collection is corrupt, starting empty", zap.Error(err))
			students = []Student{}
		}
	}

	activeID, ok, err := s.persist.Get(ctx, KeyActiveID)
	if err != nil {
		return err
	}
	if !ok {
		activeID = DefaultStudentID
	}

	s.mu.Lock()
	s.students = students
	s.activeID = activeID
	if seeded {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	s.logger.Debug("roster loaded",
		zap.Int("students", len(students)),
		zap.String("active_id", activeID),
		zap.Bool("seeded", seeded))

	s.notify(Change{Kind: ChangeLoaded})
	if !s.loadEnrich {
		return nil
	}
	if active, ok := s.Active(); ok {
		s.enrichAsync(active, false, 0)
	}
	return nil
}

// Students returns a copy of the collection in insertion order.
func (s *Store) Students() []Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.clone()
	}
	return out
}

// Student returns the record with the given id.
func (s *Store) Student(id string) (Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.students[i].clone(), true
	}
	return Student{}, false
}

// Len returns the number of students.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students)
}

// ActiveID returns the raw active selection, which may be empty or stale.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the active student. A stale non-empty selection falls back
// to the first record; an empty selection or empty collection yields none.
func (s *Store) Active() (Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.students) == 0 || s.activeID == "" {
		return Student{}, false
	}
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.students[i].clone(), true
	}
	return s.students[0].clone(), true
}

// Add creates a student with synthetic data, appends it and makes it active.
// Enrichment starts in the background.
func (s *Store) Add(ctx context.Context, name string) (Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Student{}, ErrEmptyName
	}

	st := s.gen.NewStudent(name)

	s.mu.Lock()
	for s.indexLocked(st.ID) >= 0 {
		st.ID = s.gen.NewID()
	}
	next := make([]Student, len(s.students), len(s.students)+1)
	copy(next, s.students)
	s.students = append(next, st)
	s.activeID = st.ID
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("student added", zap.String("student_id", st.ID))
	s.notify(Change{Kind: ChangeAdded, StudentID: st.ID})
	s.enrichAsync(st.clone(), false, 0)
	return st.clone(), nil
}

// Update shallow-merges p into the student with the given id and schedules a
// forced re-enrichment. Changing remarks, engagement data or metrics clears
// the current insight until the new one arrives. Returns false, doing
// nothing, when the id is unknown.
func (s *Store) Update(ctx context.Context, id string, p Patch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	updated := p.apply(s.students[i].clone())
	if p.touchesContent() {
		updated.Insight = nil
	}
	next := make([]Student, len(s.students))
	copy(next, s.students)
	next[i] = updated
	s.students = next
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("student updated", zap.String("student_id", id))
	s.notify(Change{Kind: ChangeUpdated, StudentID: id})
	s.enrichAsync(updated.clone(), true, s.refreshDelay)
	return true
}

// Delete removes the student. Deleting the active student clears the
// selection. Returns false when the id is unknown.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]Student, 0, len(s.students)-1)
	next = append(next, s.students[:i]...)
	next = append(next, s.students[i+1:]...)
	s.students = next
	if s.activeID == id {
		s.activeID = ""
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("student deleted", zap.String("student_id", id))
	s.notify(Change{Kind: ChangeDeleted, StudentID: id})
	return true
}

// Select makes the student with the given id active and persists the
// selection. Unknown ids are ignored. A selected student without an insight
// is enriched in the background.
func (s *Store) Select(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	selected := s.students[i].clone()
	s.activeID = id
	s.persistKeyLocked(ctx, KeyActiveID, id)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSelected, StudentID: id})
	s.enrichAsync(selected, false, 0)
	return true
}

// EnsureInsight requests an insight for st and merges it into the record
// with the same id. It does nothing when st already carries an insight and
// force is false. Provider failures are logged and leave the record
// untouched. Reports whether an insight was merged.
func (s *Store) EnsureInsight(ctx context.Context, st Student, force bool) bool {
	if st.Insight != nil && !force {
		return false
	}
	if s.provider == nil {
		return false
	}

	req := InsightRequest{
		EngagementData:  append([]EngagementPoint(nil), st.EngagementData...),
		AcademicMetrics: st.AcademicMetrics,
		Remarks:         st.Remarks,
	}

	s.logger.Debug("requesting insight", zap.String("student_id", st.ID), zap.Bool("force", force))
	in, err := s.provider.Insight(ctx, req)
	if err != nil {
		s.logger.Warn("insight enrichment failed", zap.String("student_id", st.ID), zap.Error(err))
		return false
	}
	if in == nil {
		return false
	}
	return s.mergeInsight(st.ID, in)
}

// Refresh starts a forced background enrichment of the student with the
// given id. Returns false when the id is unknown or no provider is set.
func (s *Store) Refresh(id string) bool {
	st, ok := s.Student(id)
	if !ok || s.provider == nil {
		return false
	}
	s.enrichAsync(st, true, 0)
	return true
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenMu.Lock()
		defer s.listenMu.Unlock()
		delete(s.listeners, id)
	}
}

// Wait blocks until all background enrichments have finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Close cancels in-flight enrichments and waits for them to return.
func (s *Store) Close() {
	s.cancel()
	s.inflight.Wait()
}

func (s *Store) mergeInsight(id string, in *Insight) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("dropping insight for removed student", zap.String("student_id", id))
		return false
	}
	next := make([]Student, len(s.students))
	copy(next, s.students)
	next[i].Insight = in.clone()
	s.students = next
	s.persistLocked(s.ctx)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeInsight, StudentID: id})
	return true
}

// enrichAsync runs EnsureInsight in the background after delay. Requests are
// neither deduplicated nor cancelled by later mutations; whichever response
// completes last wins.
func (s *Store) enrichAsync(st Student, force bool, delay time.Duration) {
	if s.provider == nil || (st.Insight != nil && !force) || s.ctx.Err() != nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-s.ctx.Done():
				return
			case <-t.C:
			}
		}
		s.EnsureInsight(s.ctx, st, force)
	}()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the collection and selection. Failures are logged and
// never undo the in-memory change.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := EncodeStudents(s.students)
	if err != nil {
		s.logger.Error("encode students", zap.Error(err))
		return
	}
	s.persistKeyLocked(ctx, KeyStudents, raw)
	s.persistKeyLocked(ctx, KeyActiveID, s.activeID)
}

func (s *Store) persistKeyLocked(ctx context.Context, key, value string) {
	if err := s.persist.Set(ctx, key, value); err != nil {
		s.logger.Warn("persist failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) notify(c Change) {
	s.listenMu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
