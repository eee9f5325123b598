package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/2witstudios/pagespace/internal/server/models"
)

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		PageID    string `json:"pageId"`
		FileName  string `json:"fileName"`
		SizeBytes int64  `json:"sizeBytes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PageID == "" || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "pageId and fileName are required")
		return
	}

	if err := s.access.RequireAtLeast(r.Context(), claims.UserID, req.PageID, models.AccessEdit); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	att, url, err := s.files.RegisterUpload(r.Context(), req.PageID, req.FileName, req.SizeBytes)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Attachment attachmentJSON `json:"attachment"`
		UploadURL  string         `json:"uploadUrl"`
	}{Attachment: toAttachmentJSON(att), UploadURL: url})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	att, err := s.files.Get(r.Context(), ps.ByName("attachmentID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// Access follows the page the attachment hangs off.
	if err := s.access.RequireAtLeast(r.Context(), claims.UserID, att.PageID, models.AccessView); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	url, err := s.files.DownloadURL(r.Context(), att)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		URL string `json:"url"`
	}{URL: url})
}
