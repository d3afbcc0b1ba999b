package digest

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/handler/http/respond"
	"pdf-digest/internal/observability/logging"
	"pdf-digest/internal/utils/text"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Banner kinds rendered by the page.
const (
	bannerInfo    = "info"
	bannerSuccess = "success"
	bannerError   = "error"
)

const (
	msgPrompt    = "Please upload a PDF to start."
	msgExtracted = "PDF text successfully extracted!"
	// The page keeps the friendlier wording for the no-text case.
	msgPageEmptyText = "No text could be extracted from the PDF. Please upload a valid PDF."
)

type banner struct {
	Kind    string
	Message string
}

type pageData struct {
	Banners       []banner
	Filename      string
	ExtractedText string
	ChunkCount    int
	Summary       string
	SummaryWords  int
	Provider      string
	Model         string
	MinWords      int
	MaxWords      int
	MaxUpload     string
}

// PageHandler serves the upload page and renders results on POST.
type PageHandler struct {
	Svc            Pipeline
	MaxUploadBytes int64
	// MinWords and MaxWords are shown in the page subtitle.
	MinWords int
	MaxWords int
}

func (h PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := h.baseData()
	if r.Method != http.MethodPost {
		data.Banners = []banner{{Kind: bannerInfo, Message: msgPrompt}}
		h.render(w, r, http.StatusOK, data)
		return
	}

	in, err := readUpload(w, r, h.MaxUploadBytes)
	if err != nil {
		h.fail(w, r, data, err)
		return
	}
	data.Filename = in.Filename

	d, err := h.Svc.Digest(r.Context(), in)
	if err != nil {
		h.fail(w, r, data, toAppError(err))
		return
	}

	data.Banners = []banner{{Kind: bannerSuccess, Message: msgExtracted}}
	data.ExtractedText = d.RawText
	data.ChunkCount = len(d.Chunks)
	if s := d.Summary; s != nil {
		data.Summary = s.Text
		data.SummaryWords = s.Words
		data.Provider = s.Provider
		data.Model = s.Model
	}
	h.render(w, r, http.StatusOK, data)
}

func (h PageHandler) baseData() pageData {
	return pageData{
		MinWords:  h.MinWords,
		MaxWords:  h.MaxWords,
		MaxUpload: text.FormatSize(h.MaxUploadBytes),
	}
}

// timedOut renders the page with a timeout banner once the request deadline passed.
func (h PageHandler) timedOut(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, h.baseData(), toAppError(r.Context().Err()))
}

func (h PageHandler) fail(w http.ResponseWriter, r *http.Request, data pageData, err error) {
	status, msg := respond.Resolve(http.StatusBadRequest, err)
	respond.Log(r.Context(), status, msg, err)
	if errors.Is(err, entity.ErrEmptyText) {
		msg = msgPageEmptyText
	}
	data.Banners = []banner{{Kind: bannerError, Message: msg}}
	h.render(w, r, status, data)
}

// render executes into a buffer first so a template error can still produce a 500.
func (h PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render page", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
