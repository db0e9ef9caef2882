package analysis

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fixora-ai/fixora/internal/api"
	"github.com/fixora-ai/fixora/internal/llm"
	"github.com/fixora-ai/fixora/internal/middleware"
)

var (
	errMissingFields = &api.AppError{
		Code:     http.StatusBadRequest,
		Category: "Missing required fields",
		Message:  "resumeText, jobDescription, and purpose are required",
	}

	validationRules = api.ValidationRules{
		{Key: "Purpose.oneof", Err: api.NewValidationError("Invalid purpose", `purpose must be either "before-applying" or "after-rejection"`)},
		{Key: "ResumeText.min", Err: api.NewValidationError("Resume too short", "Resume text must be at least 10 characters long")},
		{Key: "JobDescription.min", Err: api.NewValidationError("Job description too short", "Job description must be at least 10 characters long")},
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

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := api.Decode(r, &req); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, validationRules.Translate(err, errMissingFields))
		return
	}

	out, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		slog.Error("analyzing resume",
			"request_id", middleware.GetRequestID(r.Context()),
			"provider", h.svc.Provider(),
			"error", err,
		)
		if errors.Is(err, llm.ErrNotConfigured) {
			api.HandleError(w, api.NewConfigurationError(llm.DisplayName(h.svc.Provider())))
			return
		}
		api.HandleError(w, api.NewInternalError("Analysis failed", api.Detail(h.development, err, "Unknown error occurred")))
		return
	}

	if out.Degraded {
		w.Header().Set(api.HeaderResultDegraded, "true")
	}
	api.JSON(w, http.StatusOK, out.Result)
}
