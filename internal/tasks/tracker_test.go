package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"curator/internal/domain/models"
	"curator/internal/recommender"
)

type fakeTaskRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Task
	seq   int
	byJob map[string]string
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{rows: make(map[string]*models.Task), byJob: make(map[string]string)}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = fmt.Sprintf("row-%d", f.seq)
	cp := *t
	f.rows[t.ID] = &cp
	f.byJob[t.TaskID] = t.ID
	return nil
}

func (f *fakeTaskRepo) GetByTaskID(_ context.Context, taskID string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byJob[taskID]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *f.rows[id]
	return &cp, nil
}

func (f *fakeTaskRepo) ListActive(_ context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.rows {
		if t.Active() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) List(_ context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.rows {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskRepo) TransitionStatus(_ context.Context, id, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.TaskStatus != from {
		return false, nil
	}
	t.TaskStatus = to
	return true, nil
}

type fakeRemote struct {
	results map[string]*recommender.JobResult
}

func (f *fakeRemote) SubmitPrediction(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeRemote) SubmitChunking(context.Context, []recommender.DocumentRef) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeRemote) JobStatus(_ context.Context, jobID string) (*recommender.JobResult, error) {
	r, ok := f.results[jobID]
	if !ok {
		return nil, errors.New("unknown job")
	}
	return r, nil
}

type fakeSink struct {
	calls   int
	lastID  string
	entries []recommender.ResultEntry
	err     error
}

func (f *fakeSink) SaveRecommendations(_ context.Context, byteID string, entries []recommender.ResultEntry) error {
	f.calls++
	f.lastID = byteID
	f.entries = entries
	return f.err
}

type fakeChunks struct {
	calls  int
	lastID string
	paths  recommender.ChunkPaths
}

func (f *fakeChunks) ApplyChunkPaths(_ context.Context, clientID string, paths recommender.ChunkPaths) error {
	f.calls++
	f.lastID = clientID
	f.paths = paths
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func newTestTracker(t *testing.T, repo *fakeTaskRepo, remote *fakeRemote, sink *fakeSink, chunks *fakeChunks) *Tracker {
	t.Helper()
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	tr := NewTracker(reg, repo, remote, discardLogger())
	tr.Bind(sink, chunks)
	return tr
}

func TestRegistryLoadsKnownKinds(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	for _, name := range []string{models.TaskNameSplitChunks, models.TaskNameRecommendBytes} {
		spec, err := reg.GetKind(name)
		if err != nil {
			t.Errorf("GetKind(%q) error: %v", name, err)
			continue
		}
		if spec.Name != name {
			t.Errorf("GetKind(%q).Name = %q", name, spec.Name)
		}
		if spec.Correlates == "" {
			t.Errorf("GetKind(%q).Correlates is empty", name)
		}
	}

	if reg.Known("reticulate splines") {
		t.Error("Known() reported an unregistered kind")
	}
}

func TestRegisterRejectsUnknownKind(t *testing.T) {
	repo := newFakeTaskRepo()
	tr := newTestTracker(t, repo, &fakeRemote{}, &fakeSink{}, &fakeChunks{})

	err := tr.Register(context.Background(), &models.Task{TaskID: "job-1", TaskName: "mystery"})
	if err == nil {
		t.Fatal("Register() accepted an unknown task kind")
	}
	if len(repo.rows) != 0 {
		t.Error("unknown kind was persisted")
	}
}

func TestRegisterCreatesPending(t *testing.T) {
	repo := newFakeTaskRepo()
	tr := newTestTracker(t, repo, &fakeRemote{}, &fakeSink{}, &fakeChunks{})

	task := &models.Task{TaskID: "job-1", TaskName: models.TaskNameRecommendBytes, ByteID: strPtr("byte-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := repo.GetByTaskID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByTaskID() error: %v", err)
	}
	if got.TaskStatus != models.TaskPending {
		t.Errorf("status = %q, want %q", got.TaskStatus, models.TaskPending)
	}
	if got.ID == "" {
		t.Error("task row has no id")
	}
	if got.CreatedAt.IsZero() {
		t.Error("task row has zero created_at")
	}
}

func TestPollMovesPendingToInProgress(t *testing.T) {
	repo := newFakeTaskRepo()
	remote := &fakeRemote{results: map[string]*recommender.JobResult{
		"job-1": {Status: recommender.StatusInProgress},
	}}
	tr := newTestTracker(t, repo, remote, &fakeSink{}, &fakeChunks{})

	task := &models.Task{TaskID: "job-1", TaskName: models.TaskNameRecommendBytes, ByteID: strPtr("byte-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}

	got, _ := repo.GetByTaskID(context.Background(), "job-1")
	if got.TaskStatus != models.TaskInProgress {
		t.Errorf("status = %q, want %q", got.TaskStatus, models.TaskInProgress)
	}
}

func TestPollCompletedRecommendAppliesOnce(t *testing.T) {
	repo := newFakeTaskRepo()
	entries := []recommender.ResultEntry{{GeneratedText: "new text", UpdationType: models.ActionAdd, DocumentID: "doc-1"}}
	remote := &fakeRemote{results: map[string]*recommender.JobResult{
		"job-1": {Status: recommender.StatusCompleted, Entries: entries},
	}}
	sink := &fakeSink{}
	tr := newTestTracker(t, repo, remote, sink, &fakeChunks{})

	task := &models.Task{TaskID: "job-1", TaskName: models.TaskNameRecommendBytes, ByteID: strPtr("byte-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}
	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("second PollOnce() error: %v", err)
	}

	if sink.calls != 1 {
		t.Errorf("sink called %d times, want 1", sink.calls)
	}
	if sink.lastID != "byte-1" {
		t.Errorf("sink byte id = %q, want byte-1", sink.lastID)
	}
	got, _ := repo.GetByTaskID(context.Background(), "job-1")
	if got.TaskStatus != models.TaskCompleted {
		t.Errorf("status = %q, want %q", got.TaskStatus, models.TaskCompleted)
	}
}

func TestPollCompletedChunkAppliesPaths(t *testing.T) {
	repo := newFakeTaskRepo()
	remote := &fakeRemote{results: map[string]*recommender.JobResult{
		"job-2": {
			Status: recommender.StatusCompleted,
			Paths:  &recommender.ChunkPaths{ParsedDocPath: "s3://parsed/c1", VectorDBPath: "s3://vectors/c1"},
		},
	}}
	chunks := &fakeChunks{}
	tr := newTestTracker(t, repo, remote, &fakeSink{}, chunks)

	task := &models.Task{TaskID: "job-2", TaskName: models.TaskNameSplitChunks, ClientID: strPtr("client-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}

	if chunks.calls != 1 {
		t.Fatalf("chunk applier called %d times, want 1", chunks.calls)
	}
	if chunks.lastID != "client-1" {
		t.Errorf("client id = %q, want client-1", chunks.lastID)
	}
	if chunks.paths.VectorDBPath != "s3://vectors/c1" {
		t.Errorf("vector path = %q", chunks.paths.VectorDBPath)
	}
}

func TestPollRemoteFailureMarksFailed(t *testing.T) {
	repo := newFakeTaskRepo()
	remote := &fakeRemote{results: map[string]*recommender.JobResult{
		"job-1": {Status: recommender.StatusFailed},
	}}
	sink := &fakeSink{}
	tr := newTestTracker(t, repo, remote, sink, &fakeChunks{})

	task := &models.Task{TaskID: "job-1", TaskName: models.TaskNameRecommendBytes, ByteID: strPtr("byte-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}

	got, _ := repo.GetByTaskID(context.Background(), "job-1")
	if got.TaskStatus != models.TaskFailed {
		t.Errorf("status = %q, want %q", got.TaskStatus, models.TaskFailed)
	}
	if sink.calls != 0 {
		t.Error("side effect applied for a failed job")
	}

	// A failed task is terminal; later sweeps must not revisit it.
	active, _ := repo.ListActive(context.Background())
	if len(active) != 0 {
		t.Errorf("failed task still listed active: %d", len(active))
	}
}

func TestPollSideEffectErrorMarksFailed(t *testing.T) {
	repo := newFakeTaskRepo()
	remote := &fakeRemote{results: map[string]*recommender.JobResult{
		"job-1": {Status: recommender.StatusCompleted},
	}}
	sink := &fakeSink{err: errors.New("sink unavailable")}
	tr := newTestTracker(t, repo, remote, sink, &fakeChunks{})

	task := &models.Task{TaskID: "job-1", TaskName: models.TaskNameRecommendBytes, ByteID: strPtr("byte-1")}
	if err := tr.Register(context.Background(), task); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := tr.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error: %v", err)
	}

	got, _ := repo.GetByTaskID(context.Background(), "job-1")
	if got.TaskStatus != models.TaskFailed {
		t.Errorf("status = %q, want %q", got.TaskStatus, models.TaskFailed)
	}
}
