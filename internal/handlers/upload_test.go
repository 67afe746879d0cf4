package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/Aarti-panchal01/Khoj/internal/storage"
	"github.com/go-chi/chi/v5"
)

const testJWTSecret = "upload-test-secret"

type fakeObjectStorage struct {
	puts    []string
	failPut bool
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.failPut {
		return errors.New("remote store down")
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (f *fakeObjectStorage) PublicURL(key string) string {
	return "https://media.test/" + key
}

func (f *fakeObjectStorage) Bucket() string {
	return "test-bucket"
}

func newUploadTestRouter(t *testing.T) (*fakeObjectStorage, http.Handler) {
	t.Helper()
	fake := &fakeObjectStorage{}
	router := chi.NewRouter()
	router.Route("/api/upload", func(r chi.Router) {
		UploadRouter(r, storage.NewStorage(fake), "khoj-items", RequireAuth(testJWTSecret))
	})
	return fake, router
}

func authToken(t *testing.T) string {
	t.Helper()
	token, err := issueToken("u1", []byte(testJWTSecret), time.Hour)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	return token
}

type uploadPart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, parts []uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, part := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			`form-data; name="`+part.field+`"; filename="`+part.filename+`"`)
		header.Set("Content-Type", part.contentType)
		fw, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := fw.Write(part.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, path, token string, parts []uploadPart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, parts)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeUploadResponse(t *testing.T, rec *httptest.ResponseRecorder) UploadResponse {
	t.Helper()
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestUploadRequiresAuth(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/image", "", []uploadPart{
		{field: "image", filename: "photo.png", contentType: "image/png", data: []byte("png bytes")},
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(fake.puts) != 0 {
		t.Error("expected no upload attempt for an unauthenticated request")
	}
}

func TestUploadImageNoFile(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/image", authToken(t), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeUploadResponse(t, rec)
	if resp.Success {
		t.Error("expected success:false")
	}
	if resp.Message != "No image provided" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(fake.puts) != 0 {
		t.Error("expected no upload attempt")
	}
}

func TestUploadImageSuccess(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/image", authToken(t), []uploadPart{
		{field: "image", filename: "photo.png", contentType: "image/png", data: []byte("png bytes")},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeUploadResponse(t, rec)
	if !resp.Success {
		t.Error("expected success:true")
	}
	if !strings.HasPrefix(resp.ImageURL, "https://media.test/khoj-items/") {
		t.Errorf("unexpected imageUrl %q", resp.ImageURL)
	}
	if !strings.HasSuffix(resp.ImageURL, ".png") {
		t.Errorf("expected key to keep the extension, got %q", resp.ImageURL)
	}
	if len(fake.puts) != 1 {
		t.Errorf("expected 1 stored object, got %d", len(fake.puts))
	}
}

func TestUploadImageRejectsNonImageBeforeRemoteCall(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/image", authToken(t), []uploadPart{
		{field: "image", filename: "notes.pdf", contentType: "application/pdf", data: []byte("pdf bytes")},
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if len(fake.puts) != 0 {
		t.Error("expected no remote call for a rejected media type")
	}
}

func TestUploadImagesPreservesSubmissionOrder(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/images", authToken(t), []uploadPart{
		{field: "images", filename: "first.png", contentType: "image/png", data: []byte("a")},
		{field: "images", filename: "second.jpg", contentType: "image/jpeg", data: []byte("b")},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeUploadResponse(t, rec)
	if len(resp.Images) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(resp.Images))
	}
	if !strings.HasSuffix(resp.Images[0], ".png") || !strings.HasSuffix(resp.Images[1], ".jpg") {
		t.Errorf("expected urls in submission order, got %v", resp.Images)
	}
	if len(fake.puts) != 2 {
		t.Errorf("expected 2 stored objects, got %d", len(fake.puts))
	}
}

func TestUploadImagesNoFiles(t *testing.T) {
	_, router := newUploadTestRouter(t)

	rec := doUpload(t, router, "/api/upload/images", authToken(t), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeUploadResponse(t, rec)
	if resp.Message != "No images provided" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestUploadImagesFileCap(t *testing.T) {
	fake, router := newUploadTestRouter(t)

	parts := make([]uploadPart, 0, 6)
	for i := 0; i < 6; i++ {
		parts = append(parts, uploadPart{
			field: "images", filename: "photo.png", contentType: "image/png", data: []byte("x"),
		})
	}
	rec := doUpload(t, router, "/api/upload/images", authToken(t), parts)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for more than 5 files, got %d", rec.Code)
	}
	if len(fake.puts) != 0 {
		t.Error("expected no remote calls when over the file cap")
	}
}

func TestUploadRemoteFailure(t *testing.T) {
	fake, router := newUploadTestRouter(t)
	fake.failPut = true

	rec := doUpload(t, router, "/api/upload/image", authToken(t), []uploadPart{
		{field: "image", filename: "photo.png", contentType: "image/png", data: []byte("png bytes")},
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decodeUploadResponse(t, rec)
	if resp.Success {
		t.Error("expected success:false")
	}
}
