package usage

import (
	"log/slog"
	"net/http"

	"github.com/fixora-ai/fixora/internal/api"
)

type StatusResponse struct {
	Success bool          `json:"success"`
	Usage   Status        `json:"usage"`
	Upgrade *UpgradeOffer `json:"upgrade"`
}

type Handler struct {
	svc        *Service
	trustProxy bool
}

func NewHandler(svc *Service, trustProxy bool) *Handler {
	return &Handler{svc: svc, trustProxy: trustProxy}
}

// Status reports the caller's usage for today without consuming any.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	clientID := api.ClientIP(r, h.trustProxy)

	status, err := h.svc.Status(r.Context(), clientID)
	if err != nil {
		slog.Error("reading usage status", "client_id", clientID, "error", err)
		api.JSONErrorMessage(w, http.StatusInternalServerError, "Failed to get usage status", "Usage information is temporarily unavailable. Please try again.")
		return
	}

	resp := StatusResponse{Success: true, Usage: status}
	if status.Remaining == 0 {
		resp.Upgrade = DefaultUpgradeOffer()
	}
	api.Write(w, http.StatusOK, resp)
}
