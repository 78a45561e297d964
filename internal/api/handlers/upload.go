package handlers

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10 MiB

var extCleaner = regexp.MustCompile(`[^a-z0-9]`)

// UploadHandler stores multipart image uploads under the data directory and
// hands back the /uploads URL the post editor embeds.
type UploadHandler struct {
	uploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "no file")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	ext = extCleaner.ReplaceAllString(ext, "")
	if ext == "" {
		ext = "jpg"
	}

	name := uuid.NewString() + "." + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		log.Printf("ERROR [handlers.UploadImage] create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("ERROR [handlers.UploadImage] write failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"image_url": "/uploads/" + name,
	})
}
