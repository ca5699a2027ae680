package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/services"
)

const (
	serviceTimeout       = 5 * time.Second
	maxHeartbeatBodySize = 4 * 1024
)

// PresenceService is the behavior the presence endpoints need.
type PresenceService interface {
	Heartbeat(ctx context.Context, caller models.Identity, targetUserID string) error
	Online(ctx context.Context, caller models.Identity) (*models.PresenceList, error)
	SignOut(ctx context.Context, caller models.Identity) error
}

type presenceHandler struct {
	service PresenceService
}

type heartbeatRequest struct {
	UserID string `json:"userId"`
}

// RegisterPresenceRoutes mounts the presence endpoints. Callers must already
// have wrapped r with Authenticate.
func RegisterPresenceRoutes(r chi.Router, service PresenceService) {
	h := &presenceHandler{service: service}
	r.Route("/v1/presence", func(r chi.Router) {
		r.Get("/", h.listOnline)
		r.Post("/heartbeat", h.heartbeat)
		r.Delete("/heartbeat", h.signOut)
	})
}

func (h *presenceHandler) heartbeat(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	req, err := decodeHeartbeat(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	if err := h.service.Heartbeat(ctx, caller, strings.TrimSpace(req.UserID)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *presenceHandler) listOnline(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	list, err := h.service.Online(ctx, caller)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *presenceHandler) signOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	if err := h.service.SignOut(ctx, caller); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeHeartbeat accepts an empty body or {"userId": "..."}.
func decodeHeartbeat(w http.ResponseWriter, r *http.Request) (heartbeatRequest, error) {
	var req heartbeatRequest
	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxHeartbeatBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return heartbeatRequest{}, nil
		}
		return heartbeatRequest{}, errors.New("invalid JSON payload")
	}
	return req, nil
}

var _ PresenceService = (*services.PresenceService)(nil)
