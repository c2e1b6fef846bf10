package org

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bookli/bookli/internal/rest"
	"github.com/bookli/bookli/pkg/team"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type VerificationResultDTO struct {
	OrgId          int    `json:"orgId"`
	OrgName        string `json:"orgName"`
	AcceptedDomain string `json:"acceptedDomain"`
	AcceptedUsers  int    `json:"acceptedUsers"`
	Message        string `json:"message"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// VerifyOrganization handles the admin verification endpoint.
func (h *Handler) VerifyOrganization(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	orgId, err := strconv.Atoi(mux.Vars(r)["orgId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debugf("Verifying organization %d", orgId)

	result, err := h.service.VerifyOrganization(r.Context(), orgId)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrTeamNotFound):
			w.WriteHeader(http.StatusNotFound)
			h.writeError(w, "Organization not found")
		case errors.Is(err, ErrNotOrganization):
			w.WriteHeader(http.StatusForbidden)
			h.writeError(w, "Target team is not an organization")
		case errors.Is(err, ErrNoOwner):
			w.WriteHeader(http.StatusConflict)
			h.writeError(w, "Organization has no owner to derive a domain from")
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(VerificationResultDTO{
		OrgId:          result.OrgId,
		OrgName:        result.OrgName,
		AcceptedDomain: result.AcceptedDomain,
		AcceptedUsers:  result.AcceptedUsers,
		Message:        result.Message,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
