package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/services"
	"consign-backend/internal/validators"
	"consign-backend/pkg/utils"
)

type ScanHandler struct {
	Service *services.ScanService
}

func NewScanHandler(s *services.ScanService) *ScanHandler {
	return &ScanHandler{Service: s}
}

// Scan handles POST /api/scan. A multipart body carries up to ten "images"
// files; a JSON body carries {"text": "..."}.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		h.scanImages(w, r)
		return
	}

	var req models.ScanTextRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	matches, err := h.Service.ScanText(r.Context(), req.Text)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, matches)
}

func (h *ScanHandler) scanImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxScanImages*services.MaxScanImageBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.Error(w, r, apperr.Validation("invalid multipart body: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) > services.MaxScanImages {
		utils.Error(w, r, apperr.Validation("at most %d images are allowed", services.MaxScanImages))
		return
	}

	images := make([]models.ScanImage, 0, len(files))
	for i, fh := range files {
		if fh.Size > services.MaxScanImageBytes {
			utils.Error(w, r, apperr.Validation("image %d exceeds 10 MB", i+1))
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.Error(w, r, apperr.Validation("unreadable image %d", i+1))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.Error(w, r, apperr.Validation("unreadable image %d", i+1))
			return
		}

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		images = append(images, models.ScanImage{MimeType: mimeType, Data: data})
	}

	matches, err := h.Service.ScanImages(r.Context(), images)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, matches)
}
