package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) handleCreateDrive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	drive, err := s.drives.Create(r.Context(), claims.UserID, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, driveJSON{
		ID: drive.ID, OwnerID: drive.OwnerID, Name: drive.Name, Slug: drive.Slug,
	})
}

func (s *Server) handleDriveTrash(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forest, err := s.trash.ListDriveTrash(r.Context(), claims.UserID, ps.ByName("driveID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toForestJSON(forest))
}
