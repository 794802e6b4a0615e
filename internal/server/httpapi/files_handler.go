package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/server/services"
)

// multipart form overhead allowed on top of the file size cap
const uploadFormSlack = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxUploadSizeBytes+uploadFormSlack)

	if err := r.ParseMultipartForm(common.MaxUploadSizeBytes + uploadFormSlack); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, r, fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, common.MaxUploadSizeBytes))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: failed to parse upload form", common.ErrValidation))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: no file provided", common.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, common.ErrorInternal)
		return
	}

	record, err := s.files.Upload(r.Context(), services.UploadRequest{
		UserID:      userIDFromContext(r.Context()),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "File uploaded successfully",
		"fileId":   record.ID,
		"fileName": record.FileName,
	})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}
