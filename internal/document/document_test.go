package document

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  hello   world \n\n", want: "hello world"},
		{in: "a\x00b\x07c", want: "abc"},
		{in: "tab\tand\r\nnewline", want: "tab and newline"},
		{in: "a \x01 b", want: "a b"},
		{in: "café \u0085 résumé", want: "café résumé"},
		{in: "\x0b\x0c", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), "Clean(%q)", tt.in)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short...", Preview("short", 200))
	long := strings.Repeat("é", 250)
	assert.Equal(t, strings.Repeat("é", 200)+"...", Preview(long, 200))
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Docx(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Senior Go Engineer")
	text, err := Extract(data, MIMEDocx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Senior Go Engineer", Clean(text))
}

func TestExtract_WordFallsBackToRawText(t *testing.T) {
	text, err := Extract([]byte("not a zip but plain words"), MIMEDoc)
	require.NoError(t, err)
	assert.Equal(t, "not a zip but plain words", text)
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := Extract([]byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDocumentXMLText(t *testing.T) {
	xml := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Line</w:t><w:br/><w:t>Two</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr></w:p>` +
		`</w:body></w:document>`
	text, err := documentXMLText(xml)
	require.NoError(t, err)
	assert.Equal(t, "Skills:\tGo\nLine\nTwo\n\n", text)
}

type part struct {
	filename    string
	contentType string
	data        []byte
}

func uploadRequest(t *testing.T, field string, p *part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if p != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+p.filename+`"`)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doUpload(t *testing.T, h *Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestUpload_AcceptsTextAndCleans(t *testing.T) {
	content := "  Experienced   Go developer\x00 with\n\nten years building distributed systems.  "
	req := uploadRequest(t, "resume", &part{filename: "cv.txt", contentType: "text/plain", data: []byte(content)})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusOK, rec.Code)

	want := "Experienced Go developer with ten years building distributed systems."
	assert.Equal(t, true, body["success"])
	assert.Equal(t, want, body["text"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "cv.txt", data["filename"])
	assert.Equal(t, "text/plain", data["type"])
	assert.Equal(t, float64(len(content)), data["size"])
	assert.Equal(t, float64(len(want)), data["textLength"])
	assert.Equal(t, want+"...", data["preview"])
}

func TestUpload_AcceptsDocx(t *testing.T) {
	req := uploadRequest(t, "resume", &part{
		filename:    "cv.docx",
		contentType: MIMEDocx,
		data:        buildDocx(t, "Jane Doe", "Platform engineer at Fixora"),
	})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe Platform engineer at Fixora", body["text"])
}

func TestUpload_RejectsShortText(t *testing.T) {
	req := uploadRequest(t, "resume", &part{filename: "cv.txt", contentType: "text/plain", data: []byte("hello")})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file", body["error"])
	assert.Contains(t, body["message"], "Extracted text length: 5")
}

func TestUpload_RejectsPDF(t *testing.T) {
	req := uploadRequest(t, "resume", &part{filename: "cv.pdf", contentType: "application/pdf", data: []byte("%PDF-1.7 fake")})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file", body["error"])
	assert.Equal(t, "PDF processing is temporarily unavailable. Please upload a Word document (.docx) or text file (.txt) instead.", body["message"])
}

func TestUpload_RejectsOtherTypes(t *testing.T) {
	req := uploadRequest(t, "resume", &part{filename: "cv.png", contentType: "image/png", data: []byte("\x89PNG....")})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type. Only DOC, DOCX, and TXT files are allowed.", body["message"])
}

func TestUpload_SniffsUndeclaredType(t *testing.T) {
	req := uploadRequest(t, "resume", &part{
		filename:    "cv",
		contentType: "application/octet-stream",
		data:        []byte("Plain text resume with enough characters to pass."),
	})

	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", body["data"].(map[string]any)["type"])
}

func TestUpload_MissingFile(t *testing.T) {
	rec, body := doUpload(t, NewHandler(10<<20, false), uploadRequest(t, "resume", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", body["error"])
	assert.Equal(t, "Please select a resume file to upload", body["message"])
}

func TestUpload_WrongField(t *testing.T) {
	req := uploadRequest(t, "document", &part{filename: "cv.txt", contentType: "text/plain", data: []byte("long enough resume text")})
	rec, body := doUpload(t, NewHandler(10<<20, false), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestUpload_TooLarge(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 3<<19)
	req := uploadRequest(t, "resume", &part{filename: "cv.txt", contentType: "text/plain", data: data})

	rec, body := doUpload(t, NewHandler(1<<20, false), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File too large. Maximum size is 1MB.", body["message"])
}
