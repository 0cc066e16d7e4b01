package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudelog/agenda-api/internal/model"
	apperrors "github.com/saudelog/agenda-api/pkg/errors"
	"github.com/saudelog/agenda-api/pkg/storage"
)

type fakePresigner struct {
	presignErr error
	statInfo   *storage.ObjectInfo
	statErr    error
	deleted    []string
	presigned  []string
}

func (f *fakePresigner) PresignUpload(_ context.Context, object, contentType string) (*storage.UploadDescriptor, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.presigned = append(f.presigned, object)
	return &storage.UploadDescriptor{
		URL:     "https://storage.example.com/" + object,
		Method:  "PUT",
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakePresigner) PresignDownload(_ context.Context, object string) (string, error) {
	return "https://storage.example.com/" + object + "?signed", nil
}

func (f *fakePresigner) Stat(_ context.Context, _ string) (*storage.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func (f *fakePresigner) Delete(_ context.Context, object string) error {
	f.deleted = append(f.deleted, object)
	return nil
}

type fakeRepo struct {
	docs map[uuid.UUID]*model.Document
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[uuid.UUID]*model.Document)}
}

func (r *fakeRepo) Create(_ context.Context, d *model.Document) error {
	r.docs[d.ID] = d
	return nil
}

func (r *fakeRepo) Get(_ context.Context, _, id uuid.UUID) (*model.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperrors.NotFound("document", nil)
	}
	return doc, nil
}

func (r *fakeRepo) ListByAppointment(_ context.Context, _, appointmentID uuid.UUID) ([]*model.Document, error) {
	var out []*model.Document
	for _, d := range r.docs {
		if d.AppointmentID == appointmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkAvailable(_ context.Context, _, id uuid.UUID, size int64, etag string) error {
	doc, ok := r.docs[id]
	if !ok {
		return apperrors.NotFound("document", nil)
	}
	doc.Status = model.DocumentAvailable
	doc.Size = size
	doc.ETag = etag
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, _, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeRepo) HardDelete(_ context.Context, _, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, string, uuid.UUID, uuid.UUID, interface{}) {}

func newTestService(repo *fakeRepo, presigner *fakePresigner) *Service {
	return NewService(repo, presigner, Config{
		MaxFileSize:  10 << 20,
		AllowedTypes: []string{"application/pdf", "image/jpeg"},
	}, noopRecorder{}, zerolog.Nop())
}

func TestInitiateBatchPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	appointmentID := uuid.New()

	files := []model.UploadFileRequest{
		{FileName: "guia.pdf", ContentType: "application/pdf", Size: 1024},
		{FileName: "gigante.pdf", ContentType: "application/pdf", Size: 50 << 20},
		{FileName: "foto.jpg", ContentType: "image/jpeg", Size: 2048},
	}

	results := svc.InitiateBatch(context.Background(), tenantID, appointmentID, files)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	assert.NotNil(t, results[0].DocumentID)
	assert.NotNil(t, results[0].Upload)

	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].DocumentID)

	assert.Empty(t, results[2].Error)
	assert.NotNil(t, results[2].DocumentID)

	// Only the two accepted files got presigned and recorded.
	assert.Len(t, presigner.presigned, 2)
	assert.Len(t, repo.docs, 2)
}

func TestInitiateBatchRejectsContentType(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakePresigner{})

	results := svc.InitiateBatch(context.Background(), uuid.New(), uuid.New(), []model.UploadFileRequest{
		{FileName: "script.sh", ContentType: "application/x-sh", Size: 10},
	})
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "not allowed")
}

func TestConfirmHappyPath(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{statInfo: &storage.ObjectInfo{Size: 1024, ETag: "abc123"}}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	appointmentID := uuid.New()
	results := svc.InitiateBatch(context.Background(), tenantID, appointmentID, []model.UploadFileRequest{
		{FileName: "guia.pdf", ContentType: "application/pdf", Size: 1024},
	})
	require.NotNil(t, results[0].DocumentID)
	docID := *results[0].DocumentID

	doc, err := svc.Confirm(context.Background(), tenantID, docID, &model.ConfirmUploadRequest{Size: 1024, ETag: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentAvailable, doc.Status)
	assert.Equal(t, "abc123", doc.ETag)
}

func TestConfirmSizeMismatch(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{statInfo: &storage.ObjectInfo{Size: 999, ETag: "abc123"}}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	results := svc.InitiateBatch(context.Background(), tenantID, uuid.New(), []model.UploadFileRequest{
		{FileName: "guia.pdf", ContentType: "application/pdf", Size: 1024},
	})
	docID := *results[0].DocumentID

	_, err := svc.Confirm(context.Background(), tenantID, docID, &model.ConfirmUploadRequest{Size: 1024, ETag: "abc123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size mismatch")

	// The document stays pending, so downloads are refused.
	_, err = svc.DownloadURL(context.Background(), tenantID, docID)
	assert.Error(t, err)
}

func TestConfirmMissingObject(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{statErr: fmt.Errorf("object not found")}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	results := svc.InitiateBatch(context.Background(), tenantID, uuid.New(), []model.UploadFileRequest{
		{FileName: "guia.pdf", ContentType: "application/pdf", Size: 1024},
	})
	docID := *results[0].DocumentID

	_, err := svc.Confirm(context.Background(), tenantID, docID, &model.ConfirmUploadRequest{Size: 1024, ETag: "abc123"})
	assert.Error(t, err)
}

func TestConfirmTwiceConflicts(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{statInfo: &storage.ObjectInfo{Size: 1024, ETag: "abc123"}}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	results := svc.InitiateBatch(context.Background(), tenantID, uuid.New(), []model.UploadFileRequest{
		{FileName: "guia.pdf", ContentType: "application/pdf", Size: 1024},
	})
	docID := *results[0].DocumentID

	_, err := svc.Confirm(context.Background(), tenantID, docID, &model.ConfirmUploadRequest{Size: 1024, ETag: "abc123"})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), tenantID, docID, &model.ConfirmUploadRequest{Size: 1024, ETag: "abc123"})
	assert.Error(t, err)
}

func TestHardDeleteRemovesBlob(t *testing.T) {
	repo := newFakeRepo()
	presigner := &fakePresigner{statInfo: &storage.ObjectInfo{Size: 64, ETag: "x"}}
	svc := newTestService(repo, presigner)

	tenantID := uuid.New()
	name := gofakeit.Word() + ".pdf"
	results := svc.InitiateBatch(context.Background(), tenantID, uuid.New(), []model.UploadFileRequest{
		{FileName: name, ContentType: "application/pdf", Size: 64},
	})
	docID := *results[0].DocumentID

	require.NoError(t, svc.Delete(context.Background(), tenantID, docID, true))
	assert.Len(t, presigner.deleted, 1)
	assert.Empty(t, repo.docs)
}
