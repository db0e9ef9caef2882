package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora-ai/fixora/internal/llm"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt llm.Prompt
	calls  int
}

func (f *fakeLLM) Complete(_ context.Context, p llm.Prompt) (string, error) {
	f.calls++
	f.prompt = p
	return f.reply, f.err
}

func (f *fakeLLM) Provider() string { return "gemini" }

func TestParse(t *testing.T) {
	res, err := Parse("```json\n" + `{"improvedEmail":"Hi Sam,","explanation":"Clearer","improvements":["Subject line"],"tone":"Warm","clarityScore":88.4}` + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Hi Sam,", res.ImprovedEmail)
	assert.Equal(t, "Warm", res.Tone)
	require.NotNil(t, res.ClarityScore)
	assert.Equal(t, 88, *res.ClarityScore)
	assert.Nil(t, res.ProfessionalismScore)
}

func TestParse_Invalid(t *testing.T) {
	for name, reply := range map[string]string{
		"no json":            "I rewrote it for you: Dear Sam...",
		"tone missing":       `{"improvedEmail":"a","explanation":"b","improvements":[]}`,
		"improvements map":   `{"improvedEmail":"a","explanation":"b","improvements":{},"tone":"c"}`,
		"improvements null":  `{"improvedEmail":"a","explanation":"b","improvements":null,"tone":"c"}`,
		"score not a number": `{"improvedEmail":"a","explanation":"b","improvements":[],"tone":"c","clarityScore":"high"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(reply)
			assert.Error(t, err)
		})
	}
}

func TestBuildPrompt_UsesPurposeDescription(t *testing.T) {
	p := BuildPrompt(Request{EmailDraft: "DRAFT-TEXT", Purpose: "thank-you"})
	assert.Equal(t, 1500, p.MaxTokens)
	assert.Contains(t, p.User, "improve the following email for expressing gratitude")
	assert.Contains(t, p.User, "tone is appropriate for expressing gratitude")
	assert.Contains(t, p.User, "DRAFT-TEXT")
	assert.Contains(t, p.System, "communication coach")
}

func TestPurposeOrderMatchesPurposes(t *testing.T) {
	assert.Len(t, purposeOrder, len(Purposes))
	for _, p := range purposeOrder {
		assert.Contains(t, Purposes, p)
	}
}

func improve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/improve-email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Improve(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	client := &fakeLLM{reply: `{"improvedEmail":"Dear team,","explanation":"x","improvements":["y"],"tone":"Formal"}`}
	h := NewHandler(NewService(client, nil), false)

	rec := improve(h, `{"emailDraft":"hey can we meet tmrw","purpose":"meeting-request"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Formal", body.Data.Tone)
	assert.Contains(t, client.prompt.User, "requesting a meeting")
}

func TestHandler_Fallback(t *testing.T) {
	h := NewHandler(NewService(&fakeLLM{reply: "no structured output"}, nil), false)

	rec := improve(h, `{"emailDraft":"hey can we meet tmrw","purpose":"general"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Result-Degraded"))

	var body struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, *Fallback(), body.Data)
}

func TestHandler_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		category string
		message  string
	}{
		{name: "missing draft", body: `{"purpose":"general"}`, category: "Missing required fields"},
		{name: "short draft", body: `{"emailDraft":"hi","purpose":"general"}`, category: "Email too short"},
		{
			name:     "unknown purpose",
			body:     `{"emailDraft":"long enough draft","purpose":"love-letter"}`,
			category: "Invalid purpose",
			message:  "Purpose must be one of: job-followup, apology, client-pitch, meeting-request, thank-you, complaint, networking, proposal, general",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{}
			rec := improve(NewHandler(NewService(client, nil), false), tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.category, body["error"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			assert.Zero(t, client.calls)
		})
	}
}

func TestHandler_NotConfiguredNamesProvider(t *testing.T) {
	h := NewHandler(NewService(&fakeLLM{err: llm.ErrNotConfigured}, nil), false)

	rec := improve(h, `{"emailDraft":"long enough draft","purpose":"general"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Configuration error", body["error"])
	assert.Equal(t, "Gemini API is not properly configured", body["message"])
}
