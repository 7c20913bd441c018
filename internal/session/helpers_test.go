package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inducthub/internal/cache"
	"inducthub/internal/model"
)

// testTiming keeps the engine's timers short enough to wait out in tests.
func testTiming() Timing {
	return Timing{
		AdvanceDelay: 10 * time.Millisecond,
		SaveDebounce: 20 * time.Millisecond,
		RetryDelay:   time.Millisecond,
		RecoverAfter: 40 * time.Millisecond,
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition not met within %v", d)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeAssignments struct {
	mu         sync.Mutex
	assignment *model.Assignment
	getErrs    []error // Consumed one per GetByID call before the record is served
	updates    []*model.AssignmentUpdate
	updateErr  error
	getCalls   int
}

func (f *fakeAssignments) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.assignment == nil || f.assignment.ID != id {
		return nil, nil
	}
	a := *f.assignment
	return &a, nil
}

func (f *fakeAssignments) ApplyUpdate(_ context.Context, _ string, update *model.AssignmentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeAssignments) lastUpdate() *model.AssignmentUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

type fakeInductions struct {
	mu        sync.Mutex
	induction *model.Induction
	getErrs   []error
}

func (f *fakeInductions) GetByID(_ context.Context, id string) (*model.Induction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.induction == nil || f.induction.ID != id {
		return nil, nil
	}
	ind := *f.induction
	return &ind, nil
}

type fakeFiles struct {
	mu        sync.Mutex
	uploads   []string // Paths in upload order
	failPaths map[string]bool
}

func (f *fakeFiles) Upload(_ context.Context, path string, _ *model.FileRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPaths[path] {
		return "", errors.New("storage unavailable")
	}
	f.uploads = append(f.uploads, path)
	return path, nil
}

func (f *fakeFiles) ResolveURL(_ context.Context, ref string) (string, error) {
	return "/v1/files/" + ref, nil
}

type recordedEvent struct {
	Target  string // "managers" or "staff"
	Type    string
	Payload interface{}
}

type recorderEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorderEvents) BroadcastToManagers(_ string, msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Target: "managers", Type: msgType, Payload: payload})
}

func (r *recorderEvents) BroadcastToStaff(_ string, msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Target: "staff", Type: msgType, Payload: payload})
}

func (r *recorderEvents) count(msgType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == msgType {
			n++
		}
	}
	return n
}

func optionPtr(i int) *int { return &i }

func notRequired() *bool { f := false; return &f }

// testInduction builds the standard five-question fixture: an info page,
// two graded choices, a short answer, and an optional upload.
func testInduction() *model.Induction {
	return &model.Induction{
		ID:   "ind1",
		Name: "Site Safety",
		Questions: []model.Question{
			{ID: "info", Type: model.QuestionTypeInformation, Title: "Welcome"},
			{
				ID:             "mc",
				Type:           model.QuestionTypeMultiChoice,
				Title:          "Pick the hazards",
				Options:        []string{"Spill", "Desk", "Open flame"},
				CorrectAnswers: []int{0, 2},
			},
			{
				ID:             "tf",
				Type:           model.QuestionTypeTrueFalse,
				Title:          "Exits must stay clear",
				Options:        []string{"True", "False"},
				CorrectAnswers: []int{0},
			},
			{ID: "sa", Type: model.QuestionTypeShortAnswer, Title: "Describe the procedure", MinChars: 5},
			{ID: "fu", Type: model.QuestionTypeFileUpload, Title: "Upload certificate", Required: notRequired()},
		},
	}
}

type fixture struct {
	registry    *Registry
	assignments *fakeAssignments
	inductions  *fakeInductions
	files       *fakeFiles
	events      *recorderEvents
	store       *cache.MemoryProgressStore
	clock       *testClock
}

func newFixture() *fixture {
	clock := newTestClock()
	f := &fixture{
		assignments: &fakeAssignments{
			assignment: &model.Assignment{
				ID:          "a1",
				UserID:      "u1",
				InductionID: "ind1",
				Status:      model.AssignmentAssigned,
			},
		},
		inductions: &fakeInductions{induction: testInduction()},
		files:      &fakeFiles{},
		events:     &recorderEvents{},
		store:      cache.NewMemoryProgressStore(clock),
		clock:      clock,
	}
	f.registry = NewRegistryWith(f.assignments, f.inductions, f.store, f.files, f.events, clock, testTiming())
	return f
}

// openSession opens and starts a fresh session ready for navigation.
func (f *fixture) openSession(t *testing.T) *Session {
	t.Helper()
	s, err := f.registry.Open(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.Equal(t, model.ViewSuccess, s.Snapshot().View)
	require.NoError(t, s.Start(context.Background()))
	return s
}

// answerAll fills in valid answers for every gradable question.
func answerAll(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Answer("mc", model.AnswerValue{Options: []int{0, 2}}))
	require.NoError(t, s.Answer("tf", model.AnswerValue{Option: optionPtr(0)}))
	require.NoError(t, s.Answer("sa", model.AnswerValue{Text: "follow the spill kit instructions"}))
}
