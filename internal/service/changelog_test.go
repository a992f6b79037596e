package service

import (
	"context"
	"errors"
	"testing"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/services"
	"curator/internal/recommender"
)

type changeLogFixture struct {
	byteRepo *fakeByteRepo
	recRepo  *fakeRecRepo
	docRepo  *fakeDocRepo
	logRepo  *fakeChangeLogRepo
	byteSvc  services.ByteService
	logSvc   services.ChangeLogService
}

func newChangeLogFixture() *changeLogFixture {
	byteRepo := newFakeByteRepo()
	recRepo := newFakeRecRepo()
	docRepo := newFakeDocRepo()
	logRepo := newFakeChangeLogRepo(recRepo)

	byteSvc := NewByteService(byteRepo, recRepo, docRepo, fakeTxManager{},
		newFakeRecommender(), newFakeTaskRegistrar(), nil, discardLogger())
	logSvc := NewChangeLogService(logRepo, recRepo, byteRepo, docRepo, fakeTxManager{}, discardLogger())

	docRepo.seed(models.Document{ID: "doc-1", ClientID: "client-1", Name: "Guide"})
	return &changeLogFixture{
		byteRepo: byteRepo,
		recRepo:  recRepo,
		docRepo:  docRepo,
		logRepo:  logRepo,
		byteSvc:  byteSvc,
		logSvc:   logSvc,
	}
}

func (fx *changeLogFixture) openByteWithRecommendations(t *testing.T, n int) (*models.Byte, []models.Recommendation) {
	t.Helper()
	b := &models.Byte{UserID: "user-1", ClientID: "client-1", RequestText: "update the guide", Status: models.ByteStatusOpen}
	if err := fx.byteRepo.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}

	entries := make([]recommender.ResultEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, recommender.ResultEntry{
			DocumentID:    "doc-1",
			GeneratedText: "generated",
			UpdationType:  models.ActionReplace,
		})
	}
	if err := fx.byteSvc.SaveRecommendations(context.Background(), b.ID, entries); err != nil {
		t.Fatal(err)
	}

	recs, err := fx.recRepo.ListUnresolvedByByte(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != n {
		t.Fatalf("seeded %d recommendations, want %d", len(recs), n)
	}
	return b, recs
}

func acceptReq(byteID, recID string) *services.CreateChangeLogRequest {
	return &services.CreateChangeLogRequest{
		DocumentID:       "doc-1",
		ByteID:           byteID,
		RecommendationID: &recID,
		ChangedBy:        "user-1",
		Changes: []models.SectionChange{
			{Heading1: "Manual", Heading2: "Install", Content: "updated section"},
		},
		ChangeSummary:          "applied suggestion",
		ChangeRequestType:      "byte",
		AIRecommendationStatus: models.RecommendationAccepted,
	}
}

func TestCreateChangeLogDecrementsWhileOthersRemain(t *testing.T) {
	fx := newChangeLogFixture()
	b, recs := fx.openByteWithRecommendations(t, 2)

	entry, err := fx.logSvc.CreateChangeLog(context.Background(), acceptReq(b.ID, recs[0].ID))
	if err != nil {
		t.Fatalf("CreateChangeLog() error: %v", err)
	}
	if entry.ID == "" {
		t.Error("entry id not assigned")
	}
	if entry.Heading1 != "Manual" || entry.SectionContent != "updated section" {
		t.Errorf("section fields = %q/%q", entry.Heading1, entry.SectionContent)
	}

	got, _ := fx.byteRepo.GetByID(context.Background(), b.ID)
	if got.Status != models.ByteStatusOpen {
		t.Errorf("status = %q, want still open", got.Status)
	}
	if got.NoOfRecommendations != 1 {
		t.Errorf("no_of_recommendations = %d, want 1", got.NoOfRecommendations)
	}
}

func TestCreateChangeLogResolvesByteOnLastRecommendation(t *testing.T) {
	fx := newChangeLogFixture()
	b, recs := fx.openByteWithRecommendations(t, 1)

	req := acceptReq(b.ID, recs[0].ID)
	req.AIRecommendationStatus = models.RecommendationRejected
	if _, err := fx.logSvc.CreateChangeLog(context.Background(), req); err != nil {
		t.Fatalf("CreateChangeLog() error: %v", err)
	}

	got, _ := fx.byteRepo.GetByID(context.Background(), b.ID)
	if got.Status != models.ByteStatusResolved {
		t.Errorf("status = %q, want %q", got.Status, models.ByteStatusResolved)
	}
}

func TestCreateChangeLogMissingRecommendation(t *testing.T) {
	fx := newChangeLogFixture()
	b, _ := fx.openByteWithRecommendations(t, 1)

	req := acceptReq(b.ID, "rec-missing")
	_, err := fx.logSvc.CreateChangeLog(context.Background(), req)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want not-found", err)
	}
	if len(fx.logRepo.entries) != 0 {
		t.Error("entry written despite missing recommendation")
	}
}

func TestCreateChangeLogValidation(t *testing.T) {
	fx := newChangeLogFixture()
	b, recs := fx.openByteWithRecommendations(t, 1)

	req := acceptReq(b.ID, recs[0].ID)
	req.Changes = nil
	if _, err := fx.logSvc.CreateChangeLog(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty changes err = %v, want ErrValidation", err)
	}

	req = acceptReq(b.ID, recs[0].ID)
	req.AIRecommendationStatus = "MAYBE"
	if _, err := fx.logSvc.CreateChangeLog(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status err = %v, want ErrValidation", err)
	}
}

func TestCreateChangeLogManualEdit(t *testing.T) {
	fx := newChangeLogFixture()
	b, _ := fx.openByteWithRecommendations(t, 2)

	req := acceptReq(b.ID, "")
	req.RecommendationID = nil
	req.AIRecommendationStatus = ""
	if _, err := fx.logSvc.CreateChangeLog(context.Background(), req); err != nil {
		t.Fatalf("CreateChangeLog() error: %v", err)
	}

	// A manual edit leaves the recommendation state untouched.
	got, _ := fx.byteRepo.GetByID(context.Background(), b.ID)
	if got.NoOfRecommendations != 2 {
		t.Errorf("no_of_recommendations = %d, want 2", got.NoOfRecommendations)
	}
	if got.Status != models.ByteStatusOpen {
		t.Errorf("status = %q, want open", got.Status)
	}
}

// Full lifecycle: a byte collects recommendations, each accept or
// reject writes an audit row, and consuming the last one resolves the
// byte.
func TestByteLifecycleEndToEnd(t *testing.T) {
	fx := newChangeLogFixture()
	b, recs := fx.openByteWithRecommendations(t, 3)

	statuses := []string{
		models.RecommendationAccepted,
		models.RecommendationRejected,
		models.RecommendationAccepted,
	}
	for i, rec := range recs {
		req := acceptReq(b.ID, rec.ID)
		req.AIRecommendationStatus = statuses[i]
		if _, err := fx.logSvc.CreateChangeLog(context.Background(), req); err != nil {
			t.Fatalf("CreateChangeLog(%d) error: %v", i, err)
		}

		got, _ := fx.byteRepo.GetByID(context.Background(), b.ID)
		wantCount := len(recs) - i - 1
		if got.NoOfRecommendations != wantCount {
			t.Errorf("after %d resolutions count = %d, want %d", i+1, got.NoOfRecommendations, wantCount)
		}
	}

	got, _ := fx.byteRepo.GetByID(context.Background(), b.ID)
	if got.Status != models.ByteStatusResolved {
		t.Fatalf("final status = %q, want %q", got.Status, models.ByteStatusResolved)
	}

	unresolved, _ := fx.byteSvc.GetRecommendations(context.Background(), b.ID)
	if len(unresolved) != 0 {
		t.Errorf("unresolved groups after full resolution = %d, want 0", len(unresolved))
	}

	history, err := fx.logSvc.ListByByte(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Errorf("change log entries = %d, want 3", len(history))
	}
}

// lockTracingByteRepo and lockTracingRecRepo record the relative order
// of the byte-row decrement and the unresolved count inside a
// resolution transaction.
type lockTracingByteRepo struct {
	*fakeByteRepo
	order *[]string
}

func (r *lockTracingByteRepo) DecrementRecommendations(ctx context.Context, id string) error {
	*r.order = append(*r.order, "decrement")
	return r.fakeByteRepo.DecrementRecommendations(ctx, id)
}

type lockTracingRecRepo struct {
	*fakeRecRepo
	order *[]string
}

func (r *lockTracingRecRepo) CountUnresolvedByByte(ctx context.Context, byteID string) (int, error) {
	*r.order = append(*r.order, "count")
	return r.fakeRecRepo.CountUnresolvedByByte(ctx, byteID)
}

func TestCreateChangeLogLocksByteRowBeforeCounting(t *testing.T) {
	fx := newChangeLogFixture()
	b, recs := fx.openByteWithRecommendations(t, 2)

	var order []string
	byteRepo := &lockTracingByteRepo{fakeByteRepo: fx.byteRepo, order: &order}
	recRepo := &lockTracingRecRepo{fakeRecRepo: fx.recRepo, order: &order}
	logSvc := NewChangeLogService(fx.logRepo, recRepo, byteRepo, fx.docRepo, fakeTxManager{}, discardLogger())

	if _, err := logSvc.CreateChangeLog(context.Background(), acceptReq(b.ID, recs[0].ID)); err != nil {
		t.Fatalf("CreateChangeLog() error: %v", err)
	}

	if len(order) != 2 || order[0] != "decrement" || order[1] != "count" {
		t.Errorf("resolution call order = %v, want [decrement count]", order)
	}
}
