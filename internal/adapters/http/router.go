package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
	"github.com/missiontoscale/quotla-api/internal/observability/metrics"
)

// Uploads are held in memory for the duration of the request.
const maxUploadBytes = 20 << 20

type Router struct {
	generator ports.DocumentGenerator
	exporter  ports.DocumentExporter
	metrics   *metrics.HTTPServerMetrics
	service   string
}

func NewRouter(
	generator ports.DocumentGenerator,
	exporter ports.DocumentExporter,
	m *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		generator: generator,
		exporter:  exporter,
		metrics:   m,
		service:   service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/generate", rt.generate(""))
	mux.HandleFunc("/v1/generate/invoice", rt.generate(string(domain.TypeInvoice)))
	mux.HandleFunc("/v1/generate/quote", rt.generate(string(domain.TypeQuote)))
	mux.HandleFunc("/v1/generate/file", rt.generateFromFile)
	mux.HandleFunc("/v1/export/", rt.export)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequestBody struct {
	Prompt       string                    `json:"prompt"`
	History      []domain.ConversationTurn `json:"history"`
	DocumentType string                    `json:"document_type"`
}

// generate serves the JSON intake endpoints. forcedType pins the document
// type for the /v1/generate/invoice and /v1/generate/quote aliases; the body
// may still carry one on the bare endpoint.
func (rt *Router) generate(forcedType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		var body generateRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		docType := body.DocumentType
		if forcedType != "" {
			docType = forcedType
		}

		rt.runGenerate(w, r, domain.GenerateRequest{
			Prompt:       body.Prompt,
			History:      body.History,
			DocumentType: docType,
		})
	}
}

// generateFromFile serves multipart uploads: fields prompt, document_type, and
// the file itself.
func (rt *Router) generateFromFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	req, ok := rt.parseMultipart(w, r)
	if !ok {
		return
	}
	rt.runGenerate(w, r, req)
}

func (rt *Router) runGenerate(w http.ResponseWriter, r *http.Request, req domain.GenerateRequest) {
	start := time.Now()
	result, err := rt.generator.Generate(r.Context(), req)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	switch result.Outcome {
	case domain.OutcomeDocument:
		if rt.metrics != nil {
			rt.metrics.RecordDocumentGenerated(rt.service, string(result.DocumentType), time.Since(start))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"document_type": string(result.DocumentType),
			"data":          result.Record,
			"text_output":   result.TextOutput,
		})
	case domain.OutcomeConversation:
		if rt.metrics != nil {
			rt.metrics.RecordConversationReply(rt.service)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"document_type": "conversation",
			"message":       result.Message,
			"text_output":   result.Message,
		})
	case domain.OutcomeNeedsCurrency:
		if rt.metrics != nil {
			rt.metrics.RecordNeedsCurrency(rt.service, string(result.DocumentType))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":                false,
			"needs_currency":         true,
			"message":                result.Message,
			"detected_document_type": string(result.DocumentType),
			"partial_data":           result.PartialData,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unexpected generation outcome"})
	}
}

// export renders a download. The path carries the format: /v1/export/{format}.
// Both JSON and multipart request bodies are accepted.
func (rt *Router) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	formatName := strings.TrimPrefix(r.URL.Path, "/v1/export/")
	format, ok := domain.ParseExportFormat(formatName)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unsupported export format %q", formatName),
		})
		return
	}

	var req domain.GenerateRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, ok := rt.parseMultipart(w, r)
		if !ok {
			return
		}
		req = parsed
	} else {
		var body generateRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		req = domain.GenerateRequest{
			Prompt:       body.Prompt,
			History:      body.History,
			DocumentType: body.DocumentType,
		}
	}

	file, err := rt.exporter.Export(r.Context(), req, format)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordExport(rt.service, string(format))
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (rt *Router) parseMultipart(w http.ResponseWriter, r *http.Request) (domain.GenerateRequest, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return domain.GenerateRequest{}, false
	}

	req := domain.GenerateRequest{
		Prompt:       r.FormValue("prompt"),
		DocumentType: r.FormValue("document_type"),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if readErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable file upload"})
			return domain.GenerateRequest{}, false
		}
		req.File = &domain.FileUpload{Name: header.Filename, Data: data}
	} else if err != http.ErrMissingFile {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is malformed"})
		return domain.GenerateRequest{}, false
	}

	return req, true
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
