// Package translateplustest provides an in-memory TranslatePlus API for
// tests. It serves every endpoint the client calls, records each request
// and lets a test replace any route's handler.
//
//	srv := translateplustest.NewServer(t)
//	client, _ := translateplus.New(srv.APIKey, translateplus.WithBaseURL(srv.URL))
package translateplustest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// DefaultAPIKey is the key the server accepts unless WithAPIKey is given.
const DefaultAPIKey = "test-api-key"

// Request is a recorded request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is the raw body. It is empty for multipart requests, whose
	// contents are split into Form and Files instead.
	Body  []byte
	Form  map[string]string
	Files map[string]File
}

// JSON decodes the recorded body into v.
func (r Request) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// File is an uploaded multipart file.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Option configures the Server.
type Option func(*Server)

// WithAPIKey sets the API key the server accepts.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.APIKey = key
	}
}

// WithJobCompleteAfter sets how many status polls a job answers with
// "processing" before reporting "completed".
// Default: 1
func WithJobCompleteAfter(polls int) Option {
	return func(s *Server) {
		s.completeAfter = polls
	}
}

// Server is a fake TranslatePlus API backed by httptest.
type Server struct {
	*httptest.Server

	// APIKey is the key checked against the X-API-KEY header.
	APIKey string

	mu            sync.Mutex
	requests      []Request
	overrides     map[string]http.HandlerFunc
	jobs          map[string]*job
	jobOrder      []string
	completeAfter int
}

type job struct {
	ID              string   `json:"job_id"`
	Status          string   `json:"status"`
	Filename        string   `json:"filename"`
	SourceLanguage  string   `json:"source_language"`
	TargetLanguages []string `json:"target_languages"`
	WebhookURL      string   `json:"webhook_url,omitempty"`

	polls int
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		APIKey:        DefaultAPIKey,
		overrides:     make(map[string]http.HandlerFunc),
		jobs:          make(map[string]*job),
		completeAfter: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.override)
	r.Use(s.authenticate)

	r.Post("/v2/translate", s.handleTranslate)
	r.Post("/v2/translate/batch", s.handleTranslateBatch)
	r.Post("/v2/translate/html", s.handleTranslateHTML)
	r.Post("/v2/translate/email", s.handleTranslateEmail)
	r.Post("/v2/translate/subtitles", s.handleTranslateSubtitles)
	r.Post("/v2/language_detect", s.handleDetect)
	r.Get("/v2/supported_languages", s.handleSupportedLanguages)
	r.Get("/v2/account/summary", s.handleAccountSummary)
	r.Post("/v2/i18n/create_job", s.handleCreateJob)
	r.Get("/v2/i18n/job/{jobID}", s.handleGetJob)
	r.Get("/v2/i18n/jobs", s.handleListJobs)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found")
	})
	return r
}

// Handle replaces the handler for method and path. Authentication is
// skipped for overridden routes.
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Respond makes method and path answer with status and body encoded as JSON.
// A nil body writes an empty response.
func (s *Server) Respond(method, path string, status int, body any) {
	s.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		if body == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, body)
	})
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request. ok is false when none arrived.
func (s *Server) LastRequest() (req Request, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// AddJob registers an i18n job with the given status.
func (s *Server) AddJob(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addJobLocked(&job{ID: id, Status: status, SourceLanguage: "auto"})
}

func (s *Server) addJobLocked(j *job) {
	if _, ok := s.jobs[j.ID]; !ok {
		s.jobOrder = append(s.jobOrder, j.ID)
	}
	s.jobs[j.ID] = j
}

// record stores the request and restores its body for the next handler.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "read body: "+err.Error())
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
			rec.Form, rec.Files, err = parseMultipart(body, params["boundary"])
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "parse multipart: "+err.Error())
				return
			}
		} else {
			rec.Body = body
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		h, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != s.APIKey {
			writeDetail(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseMultipart(body []byte, boundary string) (map[string]string, map[string]File, error) {
	form := make(map[string]string)
	files := make(map[string]File)

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, files, nil
		}
		if err != nil {
			return nil, nil, err
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, nil, err
		}
		if part.FileName() != "" {
			files[part.FormName()] = File{
				Filename:    part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Content:     data,
			}
			continue
		}
		form[part.FormName()] = string(data)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// translated is the fake translation of text into target.
func translated(text, target string) string {
	return "[" + target + "] " + text
}

func translation(text, source, target string) map[string]any {
	return map[string]any{
		"text":        text,
		"translation": translated(text, target),
		"source":      source,
		"target":      target,
	}
}

type textRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"translations": translation(req.Text, req.Source, req.Target),
	})
}

func (s *Server) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts  []string `json:"texts"`
		Source string   `json:"source"`
		Target string   `json:"target"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out := make([]map[string]any, 0, len(req.Texts))
	for _, text := range req.Texts {
		out = append(out, translation(text, req.Source, req.Target))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"translations": out,
		"total":        len(out),
	})
}

func (s *Server) handleTranslateHTML(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HTML   string `json:"html"`
		Target string `json:"target"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": translated(req.HTML, req.Target)})
}

func (s *Server) handleTranslateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject   string `json:"subject"`
		EmailBody string `json:"email_body"`
		Target    string `json:"target"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subject":   translated(req.Subject, req.Target),
		"html_body": translated(req.EmailBody, req.Target),
	})
}

func (s *Server) handleTranslateSubtitles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Format  string `json:"format"`
		Target  string `json:"target"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content": translated(req.Content, req.Target),
		"format":  req.Format,
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language_detection": map[string]any{
			"language":   "en",
			"confidence": 0.99,
		},
	})
}

func (s *Server) handleSupportedLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_languages": map[string]string{
			"English": "en",
			"French":  "fr",
			"German":  "de",
			"Spanish": "es",
		},
	})
}

func (s *Server) handleAccountSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"credits_remaining": 1000,
		"plan_name":         "test",
		"concurrency_limit": 5,
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "expected multipart form: "+err.Error())
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file is required")
		return
	}
	targets := r.FormValue("target_languages")
	if targets == "" {
		writeDetail(w, http.StatusBadRequest, "target_languages is required")
		return
	}

	s.mu.Lock()
	j := &job{
		ID:              "job-" + strconv.Itoa(len(s.jobOrder)+1),
		Status:          "pending",
		Filename:        header.Filename,
		SourceLanguage:  r.FormValue("source_language"),
		TargetLanguages: strings.Split(targets, ","),
		WebhookURL:      r.FormValue("webhook_url"),
	}
	s.addJobLocked(j)
	resp := *j
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")

	s.mu.Lock()
	j, ok := s.jobs[id]
	if ok && (j.Status == "pending" || j.Status == "processing") {
		j.polls++
		j.Status = "processing"
		if j.polls > s.completeAfter {
			j.Status = "completed"
		}
	}
	var resp job
	if ok {
		resp = *j
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Job %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 || pageSize <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "page and page_size must be positive")
		return
	}

	s.mu.Lock()
	out := make([]job, 0, pageSize)
	start := (page - 1) * pageSize
	for i := start; i < len(s.jobOrder) && i < start+pageSize; i++ {
		out = append(out, *s.jobs[s.jobOrder[i]])
	}
	total := len(s.jobOrder)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":      out,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}
