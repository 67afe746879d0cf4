package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/Aarti-panchal01/Khoj/internal/storage"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadBytes     = 10 << 20 // per file
	maxUploadFiles     = 5
	maxMultipartMemory = 32 << 20
	formFieldImage     = "image"
	formFieldImages    = "images"
)

// UploadHandler forwards multipart image uploads to the media store
// and responds with the resulting public URLs.
type UploadHandler struct {
	storage *storage.Storage
	folder  string
}

// NewUploadHandler constructs an UploadHandler writing under folder.
func NewUploadHandler(storage *storage.Storage, folder string) *UploadHandler {
	return &UploadHandler{storage: storage, folder: folder}
}

// UploadRouter registers upload routes on the given router. All routes
// require authentication; unauthenticated requests are rejected before
// any upload is attempted.
func UploadRouter(r chi.Router, mediaStorage *storage.Storage, folder string, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUploadHandler(mediaStorage, folder)

	r.With(authMiddleware).Post("/image", handler.UploadImage)
	r.With(authMiddleware).Post("/images", handler.UploadImages)
}

// UploadResponse is the upload gateway's success payload.
type UploadResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Images   []string `json:"images,omitempty"`
}

// UploadImage handles a single file under the "image" field.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	files, err := parseUploadForm(r, formFieldImage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	if len(files) > 1 {
		writeError(w, http.StatusInternalServerError, "Only one image is allowed")
		return
	}

	urls, err := h.storeFiles(r, files)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success:  true,
		Message:  "Image uploaded successfully",
		ImageURL: urls[0],
	})
}

// UploadImages handles up to five files under the "images" field. The
// returned URLs preserve submission order.
func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	files, err := parseUploadForm(r, formFieldImages)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No images provided")
		return
	}
	if len(files) > maxUploadFiles {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("At most %d images are allowed", maxUploadFiles))
		return
	}

	urls, err := h.storeFiles(r, files)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: fmt.Sprintf("%d image(s) uploaded successfully", len(urls)),
		Images:  urls,
	})
}

func parseUploadForm(r *http.Request, field string) ([]*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid multipart form")
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	return r.MultipartForm.File[field], nil
}

// storeFiles validates every file, then uploads each and collects its
// public URL in submission order. Validation runs before any remote
// call: a bad media type or oversized file fails the whole request
// without touching the media store.
func (h *UploadHandler) storeFiles(r *http.Request, files []*multipart.FileHeader) ([]string, error) {
	for _, fileHeader := range files {
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return nil, fmt.Errorf("Only image files are allowed")
		}
		if fileHeader.Size > maxUploadBytes {
			return nil, fmt.Errorf("Image exceeds the %d MB size limit", maxUploadBytes>>20)
		}
	}

	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("Failed to read uploaded image")
		}

		key := h.folder + "/" + newObjectKey(fileHeader.Filename)
		err = h.storage.Put(r.Context(), key, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("Failed to upload image")
		}
		urls = append(urls, h.storage.PublicURL(key))
	}
	return urls, nil
}

// newObjectKey generates a random object name, keeping the original
// file extension so the media store serves a sensible content type.
func newObjectKey(filename string) string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:]) + strings.ToLower(path.Ext(filename))
}
