package document

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fixora-ai/fixora/internal/api"
	"github.com/fixora-ai/fixora/internal/metrics"
	"github.com/fixora-ai/fixora/internal/middleware"
)

const (
	formField        = "resume"
	minTextLength    = 10
	previewLength    = 200
	readTimeout      = 60 * time.Second
	multipartMemory  = 32 << 20
	multipartMargin  = 1 << 20
	pdfUnavailable   = "PDF processing is temporarily unavailable. Please upload a Word document (.docx) or text file (.txt) instead."
	invalidTypeError = "Invalid file type. Only DOC, DOCX, and TXT files are allowed."
)

var errNoFile = &api.AppError{
	Code:     http.StatusBadRequest,
	Category: "No file uploaded",
	Message:  "Please select a resume file to upload",
}

func invalidFile(msg string) *api.AppError {
	return api.NewBadRequestError("Invalid file", msg)
}

type UploadData struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	TextLength int    `json:"textLength"`
	Preview    string `json:"preview"`
}

type UploadResponse struct {
	Success bool       `json:"success"`
	Data    UploadData `json:"data"`
	Text    string     `json:"text"`
}

type Handler struct {
	maxBytes    int64
	development bool
}

func NewHandler(maxBytes int64, development bool) *Handler {
	return &Handler{maxBytes: maxBytes, development: development}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	_ = http.NewResponseController(w).SetReadDeadline(time.Now().Add(readTimeout))
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMargin)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, r, "unknown", invalidFile(h.tooLargeMessage()))
			return
		}
		h.reject(w, r, "unknown", errNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		h.reject(w, r, "unknown", errNoFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.reject(w, r, "unknown", invalidFile(h.tooLargeMessage()))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.fail(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}
	if int64(len(data)) > h.maxBytes {
		h.reject(w, r, "unknown", invalidFile(h.tooLargeMessage()))
		return
	}

	mimeType := contentType(header, data)
	switch {
	case mimeType == MIMEPDF:
		h.reject(w, r, mimeType, invalidFile(pdfUnavailable))
		return
	case !Allowed(mimeType):
		h.reject(w, r, mimeType, invalidFile(invalidTypeError))
		return
	}

	raw, err := Extract(data, mimeType)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to process file: %w", err))
		return
	}

	text := Clean(raw)
	if n := utf8.RuneCountInString(text); n < minTextLength {
		h.reject(w, r, mimeType, invalidFile(fmt.Sprintf(
			"No meaningful text content could be extracted from the file. Extracted text length: %d", n)))
		return
	}

	metrics.UploadsTotal.WithLabelValues(mimeType, "ok").Inc()
	slog.Info("resume uploaded",
		"request_id", middleware.GetRequestID(r.Context()),
		"filename", header.Filename,
		"type", mimeType,
		"size", len(data),
		"text_length", utf8.RuneCountInString(text),
	)

	api.Write(w, http.StatusOK, UploadResponse{
		Success: true,
		Data: UploadData{
			Filename:   header.Filename,
			Size:       int64(len(data)),
			Type:       mimeType,
			TextLength: utf8.RuneCountInString(text),
			Preview:    Preview(text, previewLength),
		},
		Text: text,
	})
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, mimeType string, appErr *api.AppError) {
	metrics.UploadsTotal.WithLabelValues(typeLabel(mimeType), "rejected").Inc()
	slog.Info("upload rejected",
		"request_id", middleware.GetRequestID(r.Context()),
		"type", mimeType,
		"reason", appErr.Message,
	)
	api.HandleError(w, appErr)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	metrics.UploadsTotal.WithLabelValues("unknown", "error").Inc()
	slog.Error("processing upload",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	api.HandleError(w, api.NewInternalError("Upload failed", api.Detail(h.development, err, "Unknown error occurred")))
}

// typeLabel bounds the metric label to known types.
func typeLabel(mimeType string) string {
	if Allowed(mimeType) || mimeType == MIMEPDF {
		return mimeType
	}
	return "other"
}

// contentType returns the declared media type without parameters, sniffing
// the content when the client sent nothing useful.
func contentType(header *multipart.FileHeader, data []byte) string {
	declared := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mt
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	mt, _, err := mime.ParseMediaType(mimetype.Detect(data).String())
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}
