package email

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fixora-ai/fixora/internal/api"
	"github.com/fixora-ai/fixora/internal/llm"
	"github.com/fixora-ai/fixora/internal/middleware"
)

var (
	errMissingFields = &api.AppError{
		Code:     http.StatusBadRequest,
		Category: "Missing required fields",
		Message:  "emailDraft and purpose are required",
	}

	validationRules = api.ValidationRules{
		{Key: "EmailDraft.min", Err: api.NewValidationError("Email too short", "Email draft must be at least 10 characters long")},
		{Key: "Purpose.oneof", Err: api.NewValidationError("Invalid purpose", "Purpose must be one of: "+strings.Join(purposeOrder, ", "))},
	}
)

type Handler struct {
	svc         *Service
	validate    *validator.Validate
	development bool
}

func NewHandler(svc *Service, development bool) *Handler {
	return &Handler{
		svc:         svc,
		validate:    validator.New(),
		development: development,
	}
}

func (h *Handler) Improve(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := api.Decode(r, &req); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, validationRules.Translate(err, errMissingFields))
		return
	}

	out, err := h.svc.Improve(r.Context(), req)
	if err != nil {
		slog.Error("improving email",
			"request_id", middleware.GetRequestID(r.Context()),
			"provider", h.svc.Provider(),
			"error", err,
		)
		if errors.Is(err, llm.ErrNotConfigured) {
			api.HandleError(w, api.NewConfigurationError(llm.DisplayName(h.svc.Provider())))
			return
		}
		api.HandleError(w, api.NewInternalError("Email improvement failed", api.Detail(h.development, err, "Unknown error occurred")))
		return
	}

	if out.Degraded {
		w.Header().Set(api.HeaderResultDegraded, "true")
	}
	api.JSON(w, http.StatusOK, out.Result)
}
