package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/modeldocs/portal/internal/models"
	"github.com/modeldocs/portal/internal/storage"
	"github.com/modeldocs/portal/internal/tagfilter"
	"github.com/modeldocs/portal/internal/uploader"
)

// draftTagLimit caps how many tags an upload draft may carry.
const draftTagLimit = 4

func (h *Handler) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.drafts.GetAll()
		sessionList := make([]*storage.DraftSession, 0, len(sessions))
		for _, session := range sessions {
			sessionList = append(sessionList, session)
		}
		h.writeJSON(w, sessionList)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleDraftDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/drafts/")
	if id, ok := strings.CutSuffix(rest, "/submit"); ok {
		h.handleDraftSubmit(w, r, id)
		return
	}

	session, ok := h.getDraftOrError(w, rest)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, session)
	case "PUT":
		var updated storage.DraftSession
		if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		updated.ID = session.ID
		if err := validateDraftTags(&updated.Draft); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		// The file never round-trips through the edit form.
		updated.Draft.FileData = session.Draft.FileData
		h.drafts.Set(session.ID, &updated)
		h.writeJSON(w, updated)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDraftSubmit(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.getDraftOrError(w, id)
	if !ok {
		return
	}

	confirmation, err := h.workflow.Submit(r.Context(), &session.Draft)
	if err != nil {
		var vErr *uploader.ValidationError
		var dErr *uploader.DuplicateError
		switch {
		case errors.Is(err, uploader.ErrAuthRequired):
			h.writeError(w, "Sign in before uploading: no employee identifier found", http.StatusUnauthorized)
		case errors.As(err, &vErr):
			h.writeError(w, vErr.Error(), http.StatusBadRequest)
		case errors.As(err, &dErr):
			h.writeError(w, dErr.Error(), http.StatusConflict)
		case errors.Is(err, uploader.ErrSubmitInFlight):
			h.writeError(w, err.Error(), http.StatusConflict)
		default:
			h.writeError(w, "Upload failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	h.drafts.Delete(id)
	h.writeJSON(w, confirmation)
}

// validateDraftTags enforces the selected-tag invariants on edited drafts:
// no duplicate ids, at most four tags.
func validateDraftTags(draft *models.UploadDraft) error {
	set := tagfilter.NewBoundedSet(draftTagLimit)
	for _, t := range draft.SelectedTags {
		if err := set.Add(t); err != nil {
			return err
		}
	}
	draft.SelectedTags = set.Tags()
	return nil
}
