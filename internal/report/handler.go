package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fixora-ai/fixora/internal/analysis"
	"github.com/fixora-ai/fixora/internal/api"
	"github.com/fixora-ai/fixora/internal/metrics"
	"github.com/fixora-ai/fixora/internal/middleware"
)

var (
	errMissingFields = &api.AppError{
		Code:     http.StatusBadRequest,
		Category: "Missing required fields",
		Message:  "resumeFilename, analysisResult, jobDescription, and purpose are required",
	}
	errInvalidResult = api.NewValidationError(
		"Invalid analysis result",
		"Analysis result must contain matchScore, missingKeywords, suggestions, and overallFeedback",
	)
)

type ExportRequest struct {
	ResumeFilename string          `json:"resumeFilename" validate:"required"`
	AnalysisResult json.RawMessage `json:"analysisResult" validate:"required"`
	JobDescription string          `json:"jobDescription" validate:"required"`
	Purpose        string          `json:"purpose" validate:"required"`
}

// exportResult accepts the analysis result as the client echoes it back.
// Pointers distinguish absent fields from zero values, so a score of 0 is valid.
type exportResult struct {
	MatchScore       *float64                  `json:"matchScore"`
	MissingKeywords  *[]string                 `json:"missingKeywords"`
	Suggestions      *[]string                 `json:"suggestions"`
	RewriteExamples  []analysis.RewriteExample `json:"rewriteExamples"`
	OverallFeedback  *string                   `json:"overallFeedback"`
	CoverLetter      string                    `json:"coverLetter"`
	ATSScore         *float64                  `json:"atsScore"`
	ATSOptimizations []string                  `json:"atsOptimizations"`
}

// DecodeResult validates a client-supplied analysis result.
func DecodeResult(raw json.RawMessage) (*analysis.Result, error) {
	var er exportResult
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, errInvalidResult
	}
	if er.MatchScore == nil || er.MissingKeywords == nil || er.Suggestions == nil || er.OverallFeedback == nil {
		return nil, errInvalidResult
	}

	res := &analysis.Result{
		MatchScore:       int(*er.MatchScore),
		MissingKeywords:  *er.MissingKeywords,
		Suggestions:      *er.Suggestions,
		RewriteExamples:  er.RewriteExamples,
		OverallFeedback:  *er.OverallFeedback,
		CoverLetter:      er.CoverLetter,
		ATSOptimizations: er.ATSOptimizations,
	}
	if er.ATSScore != nil {
		ats := int(*er.ATSScore)
		res.ATSScore = &ats
	}
	return res, nil
}

type Handler struct {
	renderer    Renderer
	validate    *validator.Validate
	development bool
	now         func() time.Time
}

func NewHandler(renderer Renderer, development bool) *Handler {
	return &Handler{
		renderer:    renderer,
		validate:    validator.New(),
		development: development,
		now:         time.Now,
	}
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := api.Decode(r, &req); err != nil {
		api.HandleError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, errMissingFields)
		return
	}

	result, err := DecodeResult(req.AnalysisResult)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	now := h.now()
	html, err := RenderHTML(Report{
		ResumeFilename: req.ResumeFilename,
		Purpose:        req.Purpose,
		JobDescription: req.JobDescription,
		GeneratedAt:    now,
		Result:         *result,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	start := time.Now()
	pdf, err := h.renderer.RenderPDF(r.Context(), html)
	metrics.PDFRenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	filename := fmt.Sprintf("resume-analysis-%d.pdf", now.UnixMilli())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("writing pdf response", "request_id", middleware.GetRequestID(r.Context()), "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("exporting pdf",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	api.HandleError(w, api.NewInternalError("Export failed", api.Detail(h.development, err, ErrRender.Error())))
}
