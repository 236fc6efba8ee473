package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadHandler stores admin-uploaded product images on disk under a
// unique name and returns the public URL.
type UploadHandler struct {
	dir        string
	publicPath string
	maxBytes   int64
}

func NewUploadHandler(dir, publicPath string, maxSizeMB int64) *UploadHandler {
	return &UploadHandler{
		dir:        dir,
		publicPath: publicPath,
		maxBytes:   maxSizeMB << 20,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		respondError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]string{
		"url":      fmt.Sprintf("%s/%s", h.publicPath, name),
		"filename": name,
	})
}
