package httpapi

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/2witstudios/pagespace/internal/server/models"
)

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		DriveID  string  `json:"driveId"`
		ParentID *string `json:"parentId"`
		Title    string  `json:"title"`
		Type     string  `json:"type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DriveID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "driveId and title are required")
		return
	}
	if req.Type == "" {
		req.Type = models.PageTypeDocument
	}

	// Root pages anchor on the drive, child pages on the parent.
	var err error
	if req.ParentID == nil {
		err = s.access.RequireDriveOwner(r.Context(), claims.UserID, req.DriveID)
	} else {
		err = s.access.RequireAtLeast(r.Context(), claims.UserID, *req.ParentID, models.AccessEdit)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	page, err := s.pages.Create(r.Context(), req.DriveID, req.ParentID, req.Title, req.Type)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPageJSON(*page))
}

func (s *Server) handleMovePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pageID := ps.ByName("pageID")

	var req struct {
		ParentID *string `json:"parentId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.access.RequireAtLeast(r.Context(), claims.UserID, pageID, models.AccessEdit); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if req.ParentID != nil {
		if err := s.access.RequireAtLeast(r.Context(), claims.UserID, *req.ParentID, models.AccessEdit); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	if err := s.pages.Move(r.Context(), pageID, req.ParentID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handleTrashPage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.pageLifecycleOp(w, r, ps, s.trash.Trash)
}

func (s *Server) handleRestorePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.pageLifecycleOp(w, r, ps, s.trash.Restore)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.pageLifecycleOp(w, r, ps, s.trash.PermanentDelete)
}

// pageLifecycleOp authorizes edit on the target, then runs one of the trash
// state transitions. Precondition failures come back from the service before
// anything was mutated.
func (s *Server) pageLifecycleOp(w http.ResponseWriter, r *http.Request, ps httprouter.Params,
	op func(ctx context.Context, pageID string) error) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pageID := ps.ByName("pageID")

	if err := s.access.RequireAtLeast(r.Context(), claims.UserID, pageID, models.AccessEdit); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := op(r.Context(), pageID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handleBreadcrumbs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pageID := ps.ByName("pageID")

	if err := s.access.RequireAtLeast(r.Context(), claims.UserID, pageID, models.AccessView); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	chain, err := s.pages.Breadcrumbs(r.Context(), pageID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]pageJSON, 0, len(chain))
	for _, p := range chain {
		out = append(out, toPageJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGrantPermission(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pageID := ps.ByName("pageID")

	var req struct {
		SubjectType string `json:"subjectType"`
		SubjectID   string `json:"subjectId"`
		Level       string `json:"level"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	level := models.AccessLevel(req.Level)
	if !level.Valid() || req.SubjectID == "" ||
		(req.SubjectType != models.SubjectUser && req.SubjectType != models.SubjectGroup) {
		writeError(w, http.StatusBadRequest, "invalid grant")
		return
	}

	perm, err := s.access.Grant(r.Context(), claims.UserID, &models.Permission{
		PageID:      pageID,
		SubjectType: req.SubjectType,
		SubjectID:   req.SubjectID,
		Level:       level,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID string `json:"id"`
	}{ID: perm.ID})
}

func (s *Server) handleRevokePermission(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := s.access.Revoke(r.Context(), claims.UserID, ps.ByName("pageID"), ps.ByName("permissionID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}
