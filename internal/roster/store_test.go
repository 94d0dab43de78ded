package roster

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedProvider answers insight requests from a function and counts calls.
type scriptedProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req InsightRequest) (*Insight, error)

	mu   sync.Mutex
	reqs []InsightRequest
}

func (p *scriptedProvider) Insight(ctx context.Context, req InsightRequest) (*Insight, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.reqs = append(p.reqs, req)
	p.mu.Unlock()
	return p.fn(ctx, req)
}

func (p *scriptedProvider) requests() []InsightRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]InsightRequest(nil), p.reqs...)
}

func fixedInsight(observation string) func(context.Context, InsightRequest) (*Insight, error) {
	return func(context.Context, InsightRequest) (*Insight, error) {
		return &Insight{
			Observation:     observation,
			Rationale:       "r",
			Suggestions:     []string{"s"},
			IsStudying:      true,
			EngagementScore: 70,
		}, nil
	}
}

func testGenerator() *Generator {
	return NewGenerator(DefaultGeneratorConfig(), rand.New(rand.NewPCG(1, 2)))
}

func newTestStore(t *testing.T, persist Persistence, provider InsightProvider, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithGenerator(testGenerator()), WithRefreshDelay(time.Millisecond)}, opts...)
	s := New(persist, provider, zap.NewNop(), opts...)
	t.Cleanup(s.Close)
	return s
}

func TestStore_LoadSeedsFirstRun(t *testing.T) {
	mem := NewMemoryPersistence()
	s := newTestStore(t, mem, nil)

	require.NoError(t, s.Load(context.Background()))

	students := s.Students()
	require.Len(t, students, 1)
	assert.Equal(t, DefaultStudentID, students[0].ID)
	assert.Equal(t, "Julian Vance", students[0].Name)
	assert.Len(t, students[0].EngagementData, 7)
	assert.Equal(t, DefaultStudentID, s.ActiveID())

	raw, ok, _ := mem.Get(context.Background(), KeyStudents)
	require.True(t, ok, "seed should be persisted")
	assert.Contains(t, raw, DefaultStudentID)
}

func TestStore_LoadMalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryPersistence()
	require.NoError(t, mem.Set(ctx, KeyStudents, "{not json"))
	require.NoError(t, mem.Set(ctx, KeyActiveID, "std-x"))

	s := newTestStore(t, mem, nil)
	require.NoError(t, s.Load(ctx))

	assert.Empty(t, s.Students())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestStore_AddSelectsAndEnriches(t *testing.T) {
	ctx := context.Background()
	prov := &scriptedProvider{fn: fixedInsight("steady")}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st, err := s.Add(ctx, "  Ada  ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", st.Name)
	assert.Empty(t, st.Remarks)
	assert.Nil(t, st.Insight)
	assert.Equal(t, st.ID, s.ActiveID())

	s.Wait()

	got, ok := s.Student(st.ID)
	require.True(t, ok)
	require.NotNil(t, got.Insight)
	assert.Equal(t, "steady", got.Insight.Observation)
	assert.EqualValues(t, 1, prov.calls.Load())
}

func TestStore_AddEmptyName(t *testing.T) {
	s := newTestStore(t, NewMemoryPersistence(), nil)

	_, err := s.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Zero(t, s.Len())
}

func TestStore_AddUniqueIDs(t *testing.T) {
	s := newTestStore(t, NewMemoryPersistence(), nil)
	seen := map[string]bool{}
	for range 50 {
		st, err := s.Add(context.Background(), "n")
		require.NoError(t, err)
		assert.False(t, seen[st.ID], "duplicate id %s", st.ID)
		seen[st.ID] = true
	}
}

func TestStore_UpdateUnknownIsNoop(t *testing.T) {
	mem := NewMemoryPersistence()
	s := newTestStore(t, mem, nil)

	assert.False(t, s.Update(context.Background(), "missing", Patch{Name: String("x")}))
	assert.Zero(t, mem.Writes(KeyStudents))
}

func TestStore_UpdateReplacesMetricsWholesale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)
	st, err := s.Add(ctx, "Ada")
	require.NoError(t, err)

	m := AcademicMetrics{AttendanceDropPercentage: 42}
	require.True(t, s.Update(ctx, st.ID, Patch{AcademicMetrics: &m}))

	got, _ := s.Student(st.ID)
	assert.Equal(t, m, got.AcademicMetrics)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, st.EngagementData, got.EngagementData)
}

func TestStore_UpdateForcesRefresh(t *testing.T) {
	ctx := context.Background()
	prov := &scriptedProvider{fn: fixedInsight("fresh")}
	s := newTestStore(t, NewMemoryPersistence(), prov, WithRefreshDelay(200*time.Millisecond))

	st, err := s.Add(ctx, "Ada")
	require.NoError(t, err)
	s.Wait()
	require.EqualValues(t, 1, prov.calls.Load())

	require.True(t, s.Update(ctx, st.ID, Patch{Remarks: String("needs help")}))
	got, _ := s.Student(st.ID)
	assert.Nil(t, got.Insight, "content change clears the insight until refreshed")

	s.Wait()
	assert.EqualValues(t, 2, prov.calls.Load())

	reqs := prov.requests()
	assert.Equal(t, "needs help", reqs[len(reqs)-1].Remarks)

	got, _ = s.Student(st.ID)
	require.NotNil(t, got.Insight)
	assert.Equal(t, "fresh", got.Insight.Observation)
}

func TestStore_UpdateNameKeepsInsight(t *testing.T) {
	ctx := context.Background()
	prov := &scriptedProvider{fn: fixedInsight("kept")}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st, _ := s.Add(ctx, "Ada")
	s.Wait()

	require.True(t, s.Update(ctx, st.ID, Patch{Name: String("Ada L.")}))
	got, _ := s.Student(st.ID)
	require.NotNil(t, got.Insight)
	assert.Equal(t, "Ada L.", got.Name)

	s.Wait()
	assert.EqualValues(t, 2, prov.calls.Load(), "every update schedules a forced refresh")
}

func TestStore_DeleteActiveClearsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)
	a, _ := s.Add(ctx, "A")
	b, _ := s.Add(ctx, "B")

	require.True(t, s.Delete(ctx, b.ID))
	assert.Empty(t, s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok, "no auto-promotion after deleting the active student")

	require.True(t, s.Select(ctx, a.ID))
	require.True(t, s.Delete(ctx, a.ID))
	assert.Zero(t, s.Len())
	assert.False(t, s.Delete(ctx, a.ID))
}

func TestStore_DeleteInactiveKeepsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)
	a, _ := s.Add(ctx, "A")
	b, _ := s.Add(ctx, "B")

	require.True(t, s.Delete(ctx, a.ID))
	assert.Equal(t, b.ID, s.ActiveID())
}

func TestStore_ActiveStaleFallsBackToFirst(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryPersistence()
	raw, err := EncodeStudents([]Student{{ID: "one", Name: "One"}, {ID: "two", Name: "Two"}})
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, KeyStudents, raw))
	require.NoError(t, mem.Set(ctx, KeyActiveID, "gone"))

	s := newTestStore(t, mem, nil)
	require.NoError(t, s.Load(ctx))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "one", active.ID)
	assert.Equal(t, "gone", s.ActiveID())
}

func TestStore_SelectUnknownIgnored(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)
	a, _ := s.Add(ctx, "A")

	assert.False(t, s.Select(ctx, "nope"))
	assert.Equal(t, a.ID, s.ActiveID())
}

func TestStore_EnsureInsightSkipsExisting(t *testing.T) {
	prov := &scriptedProvider{fn: fixedInsight("x")}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st := Student{ID: "a", Insight: &Insight{Observation: "have"}}
	assert.False(t, s.EnsureInsight(context.Background(), st, false))
	assert.Zero(t, prov.calls.Load())
}

func TestStore_EnsureInsightProviderFailure(t *testing.T) {
	ctx := context.Background()
	fail := errors.New("boom")
	prov := &scriptedProvider{fn: func(context.Context, InsightRequest) (*Insight, error) { return nil, fail }}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st, err := s.Add(ctx, "A")
	require.NoError(t, err)
	s.Wait()

	got, _ := s.Student(st.ID)
	assert.Nil(t, got.Insight)
	assert.False(t, s.EnsureInsight(ctx, got, true))
}

func TestStore_EnrichmentAfterDeleteIsDropped(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	prov := &scriptedProvider{fn: func(ctx context.Context, _ InsightRequest) (*Insight, error) {
		<-release
		return &Insight{Observation: "late"}, nil
	}}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st, _ := s.Add(ctx, "A")
	require.True(t, s.Delete(ctx, st.ID))
	close(release)
	s.Wait()

	_, ok := s.Student(st.ID)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_LastCompletionWins(t *testing.T) {
	ctx := context.Background()
	first := make(chan struct{})
	second := make(chan struct{})

	var n atomic.Int32
	prov := &scriptedProvider{fn: func(context.Context, InsightRequest) (*Insight, error) {
		switch n.Add(1) {
		case 1:
			<-first
			return &Insight{Observation: "first"}, nil
		default:
			<-second
			return &Insight{Observation: "second"}, nil
		}
	}}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	st, _ := s.Add(ctx, "A")
	require.True(t, s.Update(ctx, st.ID, Patch{Name: String("B")}))

	// The second request completes first; the older one lands afterwards.
	require.Eventually(t, func() bool { return n.Load() == 2 }, time.Second, time.Millisecond)
	close(second)
	require.Eventually(t, func() bool {
		got, _ := s.Student(st.ID)
		return got.Insight != nil
	}, time.Second, time.Millisecond)
	close(first)
	s.Wait()

	got, _ := s.Student(st.ID)
	require.NotNil(t, got.Insight)
	assert.Equal(t, "first", got.Insight.Observation)
}

func TestStore_PersistFailureKeepsMutation(t *testing.T) {
	mem := NewMemoryPersistence()
	mem.Err = errors.New("disk full")
	s := newTestStore(t, mem, nil)

	st, err := s.Add(context.Background(), "A")
	require.NoError(t, err)
	_, ok := s.Student(st.ID)
	assert.True(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryPersistence()
	prov := &scriptedProvider{fn: fixedInsight("persisted")}

	s1 := newTestStore(t, mem, prov)
	a, _ := s1.Add(ctx, "A")
	b, _ := s1.Add(ctx, "B")
	require.True(t, s1.Select(ctx, a.ID))
	s1.Wait()

	s2 := newTestStore(t, mem, nil)
	require.NoError(t, s2.Load(ctx))

	want := s1.Students()
	require.Len(t, want, 2)
	assert.Equal(t, a.ID, want[0].ID)
	assert.Equal(t, b.ID, want[1].ID)
	require.NotNil(t, want[0].Insight)
	assert.Equal(t, "persisted", want[0].Insight.Observation)

	assert.Equal(t, want, s2.Students())
	assert.Equal(t, a.ID, s2.ActiveID())
}

func TestStore_LoadEnrichesActiveWithoutInsight(t *testing.T) {
	prov := &scriptedProvider{fn: fixedInsight("seeded")}
	s := newTestStore(t, NewMemoryPersistence(), prov)

	require.NoError(t, s.Load(context.Background()))
	s.Wait()

	active, ok := s.Active()
	require.True(t, ok)
	require.NotNil(t, active.Insight)
	assert.Equal(t, "seeded", active.Insight.Observation)
}

func TestStore_LoadWithoutEnrichmentLeavesProviderIdle(t *testing.T) {
	prov := &scriptedProvider{fn: fixedInsight("seeded")}
	s := newTestStore(t, NewMemoryPersistence(), prov, WithoutLoadEnrichment())

	require.NoError(t, s.Load(context.Background()))
	s.Wait()

	assert.Zero(t, prov.calls.Load())
	active, ok := s.Active()
	require.True(t, ok)
	assert.Nil(t, active.Insight)
}

func TestReset_ClearsStoredRoster(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryPersistence()
	s1 := newTestStore(t, mem, nil)
	require.NoError(t, s1.Load(ctx))
	_, err := s1.Add(ctx, "Maya")
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, KeyUserRole, "parent"))

	require.NoError(t, Reset(ctx, mem))
	for _, key := range []string{KeyStudents, KeyActiveID, KeyUserRole} {
		_, ok, err := mem.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}

	s2 := newTestStore(t, mem, nil)
	require.NoError(t, s2.Load(ctx))
	got := s2.Students()
	require.Len(t, got, 1)
	assert.Equal(t, DefaultStudentID, got[0].ID)
}

type getSetOnly struct{ Persistence }

func TestReset_UnsupportedBackend(t *testing.T) {
	err := Reset(context.Background(), getSetOnly{NewMemoryPersistence()})
	assert.ErrorIs(t, err, ErrResetUnsupported)
}

func TestStore_SubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)

	var mu sync.Mutex
	var kinds []ChangeKind
	unsubscribe := s.Subscribe(func(c Change) {
		mu.Lock()
		kinds = append(kinds, c.Kind)
		mu.Unlock()
	})

	st, _ := s.Add(ctx, "A")
	s.Update(ctx, st.ID, Patch{Name: String("B")})
	unsubscribe()
	s.Delete(ctx, st.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ChangeKind{ChangeAdded, ChangeUpdated}, kinds)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryPersistence(), nil)
	st, _ := s.Add(ctx, "A")

	got, _ := s.Student(st.ID)
	got.EngagementData[0].Focus = -1

	again, _ := s.Student(st.ID)
	assert.NotEqual(t, -1.0, again.EngagementData[0].Focus)
}

func TestStore_RefreshForcesEnrichment(t *testing.T) {
	provider := &scriptedProvider{fn: fixedInsight("fresh")}
	s := newTestStore(t, NewMemoryPersistence(), provider)
	require.NoError(t, s.Load(context.Background()))
	s.Wait()
	before := provider.calls.Load()

	assert.True(t, s.Refresh(DefaultStudentID))
	assert.False(t, s.Refresh("missing"))
	s.Wait()

	assert.Equal(t, before+1, provider.calls.Load())
	st, ok := s.Student(DefaultStudentID)
	require.True(t, ok)
	require.NotNil(t, st.Insight)
	assert.Equal(t, "fresh", st.Insight.Observation)
}
