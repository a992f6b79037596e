package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/recommender"
)

// In-memory fakes for the repository layer. They mirror the conditional
// semantics the SQL implementations rely on (floored decrements,
// unresolved counting via change-log rows).

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeByteRepo struct {
	mu    sync.Mutex
	seq   int
	bytes map[string]*models.Byte
}

func newFakeByteRepo() *fakeByteRepo {
	return &fakeByteRepo{bytes: make(map[string]*models.Byte)}
}

func (f *fakeByteRepo) Create(_ context.Context, b *models.Byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	b.ID = fmt.Sprintf("byte-%d", f.seq)
	cp := *b
	f.bytes[b.ID] = &cp
	return nil
}

func (f *fakeByteRepo) GetByID(_ context.Context, id string) (*models.Byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok || b.IsDeleted {
		return nil, &domain.NotFoundError{Message: "byte not found"}
	}
	cp := *b
	return &cp, nil
}

func (f *fakeByteRepo) ListByClient(_ context.Context, clientID string) ([]models.Byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Byte
	for _, b := range f.bytes {
		if b.ClientID == clientID && !b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeByteRepo) ListByUser(_ context.Context, userID string) ([]models.Byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Byte
	for _, b := range f.bytes {
		if b.UserID == userID && !b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeByteRepo) SetStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok {
		return &domain.NotFoundError{Message: "byte not found"}
	}
	b.Status = status
	return nil
}

func (f *fakeByteRepo) SetUserFeedback(_ context.Context, id string, feedback *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok {
		return &domain.NotFoundError{Message: "byte not found"}
	}
	b.UserFeedback = feedback
	return nil
}

func (f *fakeByteRepo) SetRecommendationState(_ context.Context, id string, count int, processed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok {
		return &domain.NotFoundError{Message: "byte not found"}
	}
	b.NoOfRecommendations = count
	b.IsProcessedByRecommendation = processed
	return nil
}

func (f *fakeByteRepo) DecrementRecommendations(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok {
		return &domain.NotFoundError{Message: "byte not found"}
	}
	if b.NoOfRecommendations > 0 {
		b.NoOfRecommendations--
	}
	return nil
}

func (f *fakeByteRepo) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bytes[id]
	if !ok {
		return &domain.NotFoundError{Message: "byte not found"}
	}
	b.IsDeleted = true
	return nil
}

type fakeRecRepo struct {
	mu       sync.Mutex
	seq      int
	recs     map[string]*models.Recommendation
	resolved map[string]bool // ids consumed by a change-log row
}

func newFakeRecRepo() *fakeRecRepo {
	return &fakeRecRepo{
		recs:     make(map[string]*models.Recommendation),
		resolved: make(map[string]bool),
	}
}

func (f *fakeRecRepo) CreateBatch(_ context.Context, recs []models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range recs {
		f.seq++
		recs[i].ID = fmt.Sprintf("rec-%d", f.seq)
		cp := recs[i]
		f.recs[cp.ID] = &cp
	}
	return nil
}

func (f *fakeRecRepo) GetByID(_ context.Context, id string) (*models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "recommendation not found"}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecRepo) ListUnresolvedByByte(_ context.Context, byteID string) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Recommendation
	for i := 1; i <= f.seq; i++ {
		id := fmt.Sprintf("rec-%d", i)
		r, ok := f.recs[id]
		if ok && r.ByteID == byteID && !f.resolved[id] {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecRepo) ListByDocument(_ context.Context, docID string) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Recommendation
	for _, r := range f.recs {
		if r.DocumentID == docID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecRepo) DeleteByDocument(_ context.Context, docID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var byteIDs []string
	for id, r := range f.recs {
		if r.DocumentID == docID {
			byteIDs = append(byteIDs, r.ByteID)
			delete(f.recs, id)
		}
	}
	return byteIDs, nil
}

func (f *fakeRecRepo) CountUnresolvedByByte(_ context.Context, byteID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, r := range f.recs {
		if r.ByteID == byteID && !f.resolved[id] {
			n++
		}
	}
	return n, nil
}

func (f *fakeRecRepo) markResolved(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved[id] = true
}

type fakeChangeLogRepo struct {
	mu      sync.Mutex
	seq     int
	entries []models.ChangeLog
	recs    *fakeRecRepo // change-log rows consume recommendations
}

func newFakeChangeLogRepo(recs *fakeRecRepo) *fakeChangeLogRepo {
	return &fakeChangeLogRepo{recs: recs}
}

func (f *fakeChangeLogRepo) Create(_ context.Context, entry *models.ChangeLog) error {
	f.mu.Lock()
	f.seq++
	entry.ID = fmt.Sprintf("log-%d", f.seq)
	f.entries = append(f.entries, *entry)
	f.mu.Unlock()
	if entry.RecommendationID != nil {
		f.recs.markResolved(*entry.RecommendationID)
	}
	return nil
}

func (f *fakeChangeLogRepo) ListByDocument(_ context.Context, docID string) ([]models.ChangeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ChangeLog
	for _, e := range f.entries {
		if e.DocumentID == docID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeChangeLogRepo) ListByByte(_ context.Context, byteID string) ([]models.ChangeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ChangeLog
	for _, e := range f.entries {
		if e.ByteID == byteID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	mu   sync.Mutex
	seq  int
	docs map[string]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*models.Document)}
}

func (f *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	doc.ID = fmt.Sprintf("doc-%d", f.seq)
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) GetByID(_ context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocRepo) ListByClient(_ context.Context, clientID string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if d.ClientID == clientID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) ListByFolder(_ context.Context, folderID string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) Update(_ context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[doc.ID]; !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) UpdatePathsByClient(_ context.Context, clientID, parsedPath, vectorPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ClientID == clientID {
			d.ParsedDocPath = parsedPath
			d.VectorDBPath = vectorPath
		}
	}
	return nil
}

func (f *fakeDocRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocRepo) DeleteByFolder(_ context.Context, folderID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, d := range f.docs {
		if d.FolderID != nil && *d.FolderID == folderID {
			ids = append(ids, id)
			delete(f.docs, id)
		}
	}
	return ids, nil
}

// seed inserts a document without running the upload pipeline.
func (f *fakeDocRepo) seed(doc models.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = &doc
}

type fakeClientRepo struct {
	mu      sync.Mutex
	seq     int
	clients map[string]*models.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]*models.Client)}
}

func (f *fakeClientRepo) Create(_ context.Context, c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("client-%d", f.seq)
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "client not found"}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) List(_ context.Context) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClientRepo) Update(_ context.Context, c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c.ID]; !ok {
		return &domain.NotFoundError{Message: "client not found"}
	}
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *fakeClientRepo) AdjustCounts(_ context.Context, id string, docDelta, folderDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return &domain.NotFoundError{Message: "client not found"}
	}
	c.NoOfDocuments += docDelta
	if c.NoOfDocuments < 0 {
		c.NoOfDocuments = 0
	}
	c.NoOfFolders += folderDelta
	if c.NoOfFolders < 0 {
		c.NoOfFolders = 0
	}
	return nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[id]; !ok {
		return &domain.NotFoundError{Message: "client not found"}
	}
	delete(f.clients, id)
	return nil
}

// seed inserts a client directly.
func (f *fakeClientRepo) seed(c models.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[c.ID] = &c
}

type fakeFolderRepo struct {
	mu      sync.Mutex
	seq     int
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (f *fakeFolderRepo) Create(_ context.Context, fl *models.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	fl.ID = fmt.Sprintf("folder-%d", f.seq)
	cp := *fl
	f.folders[fl.ID] = &cp
	return nil
}

func (f *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	cp := *fl
	return &cp, nil
}

func (f *fakeFolderRepo) ListByClient(_ context.Context, clientID string) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Folder
	for _, fl := range f.folders {
		if fl.ClientID == clientID {
			out = append(out, *fl)
		}
	}
	return out, nil
}

func (f *fakeFolderRepo) ListByTeamspace(_ context.Context, teamspaceID string) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Folder
	for _, fl := range f.folders {
		if fl.TeamspaceID != nil && *fl.TeamspaceID == teamspaceID {
			out = append(out, *fl)
		}
	}
	return out, nil
}

func (f *fakeFolderRepo) Update(_ context.Context, fl *models.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[fl.ID]; !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	cp := *fl
	f.folders[fl.ID] = &cp
	return nil
}

func (f *fakeFolderRepo) AdjustDocumentCount(_ context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.folders[id]
	if !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	fl.NoOfDocuments += delta
	if fl.NoOfDocuments < 0 {
		fl.NoOfDocuments = 0
	}
	return nil
}

func (f *fakeFolderRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[id]; !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	delete(f.folders, id)
	return nil
}

type fakeTeamspaceRepo struct {
	mu     sync.Mutex
	seq    int
	spaces map[string]*models.Teamspace
}

func newFakeTeamspaceRepo() *fakeTeamspaceRepo {
	return &fakeTeamspaceRepo{spaces: make(map[string]*models.Teamspace)}
}

func (f *fakeTeamspaceRepo) Create(_ context.Context, ts *models.Teamspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ts.ID = fmt.Sprintf("ts-%d", f.seq)
	cp := *ts
	f.spaces[ts.ID] = &cp
	return nil
}

func (f *fakeTeamspaceRepo) GetByID(_ context.Context, id string) (*models.Teamspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.spaces[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "teamspace not found"}
	}
	cp := *ts
	return &cp, nil
}

func (f *fakeTeamspaceRepo) ListByClient(_ context.Context, clientID string) ([]models.Teamspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Teamspace
	for _, ts := range f.spaces {
		if ts.ClientID == clientID {
			out = append(out, *ts)
		}
	}
	return out, nil
}

func (f *fakeTeamspaceRepo) Update(_ context.Context, ts *models.Teamspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.spaces[ts.ID]; !ok {
		return &domain.NotFoundError{Message: "teamspace not found"}
	}
	cp := *ts
	f.spaces[ts.ID] = &cp
	return nil
}

func (f *fakeTeamspaceRepo) SetTrainingState(_ context.Context, id string, isTrained, reTrainingRequired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.spaces[id]
	if !ok {
		return &domain.NotFoundError{Message: "teamspace not found"}
	}
	ts.IsTrained = isTrained
	ts.ReTrainingRequired = reTrainingRequired
	return nil
}

func (f *fakeTeamspaceRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.spaces[id]; !ok {
		return &domain.NotFoundError{Message: "teamspace not found"}
	}
	delete(f.spaces, id)
	return nil
}

type fakeTaskRegistrar struct {
	mu         sync.Mutex
	tasks      []models.Task
	err        error
	registered chan models.Task
}

func newFakeTaskRegistrar() *fakeTaskRegistrar {
	return &fakeTaskRegistrar{registered: make(chan models.Task, 16)}
}

func (f *fakeTaskRegistrar) Register(_ context.Context, task *models.Task) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.tasks = append(f.tasks, *task)
	f.mu.Unlock()
	f.registered <- *task
	return nil
}

type fakeRecommender struct {
	mu          sync.Mutex
	seq         int
	predictions []string // teamspace ids, in submission order
	chunked     [][]recommender.DocumentRef
	failSubmit  bool
	submitted   chan string // receives the job id of each submission
}

func newFakeRecommender() *fakeRecommender {
	return &fakeRecommender{submitted: make(chan string, 16)}
}

func (f *fakeRecommender) SubmitPrediction(_ context.Context, _, teamspaceID string) (string, error) {
	if f.failSubmit {
		return "", errRemoteDown
	}
	f.mu.Lock()
	f.seq++
	jobID := fmt.Sprintf("job-%d", f.seq)
	f.predictions = append(f.predictions, teamspaceID)
	f.mu.Unlock()
	f.submitted <- jobID
	return jobID, nil
}

func (f *fakeRecommender) SubmitChunking(_ context.Context, docs []recommender.DocumentRef) (string, error) {
	if f.failSubmit {
		return "", errRemoteDown
	}
	f.mu.Lock()
	f.seq++
	jobID := fmt.Sprintf("job-%d", f.seq)
	f.chunked = append(f.chunked, docs)
	f.mu.Unlock()
	f.submitted <- jobID
	return jobID, nil
}

func (f *fakeRecommender) JobStatus(_ context.Context, jobID string) (*recommender.JobResult, error) {
	return &recommender.JobResult{Status: recommender.StatusPending}, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) bool { return false }

var errRemoteDown = errors.New("remote unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
