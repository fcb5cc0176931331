package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	m "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"veridoc/internal/storage"
)

type Server struct {
	DB    *sqlx.DB
	S3    *storage.Client
	Asynq *asynq.Client
}

func NewServer(dbx *sqlx.DB, s3c *storage.Client, asq *asynq.Client) *http.Server {
	s := &Server{DB: dbx, S3: s3c, Asynq: asq}
	r := chi.NewRouter()
	r.Use(m.RequestID, m.RealIP, m.Logger, m.Recoverer)

	// API-token protected
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIToken)
		r.Post("/documents", s.uploadDocument)
		r.Get("/documents/{id}", s.getDocument)
		r.Post("/documents/{id}/analyze", s.reanalyze)
		r.Post("/documents/{id}/quiz", s.buildQuiz)
	})

	// Report is readable with either the API token or the document's
	// share token.
	r.Get("/documents/{id}/report", s.getReport)

	// Quiz taking and the catalog are public demo surfaces.
	r.Get("/quizzes/{id}", s.getQuiz)
	r.Post("/quizzes/{id}/answers", s.gradeQuiz)
	r.Get("/products", s.listProducts)
	r.Get("/products/{id}", s.getProduct)
	r.Post("/products/{id}/reviews", s.createReview)
	r.Get("/products/{id}/sentiment", s.getSentiment)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// just a simple ping endpoint
		if err := dbx.Ping(); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":"db error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return &http.Server{Addr: ":8000", Handler: r}
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
