package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"veridoc/internal/auth"
	"veridoc/internal/db"
	"veridoc/internal/extract"
	"veridoc/internal/schemas"
	"veridoc/internal/score"
)

// maxUploadBytes caps document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errResp{"upload too large or malformed"})
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, 400, errResp{"multipart field 'file' required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, 400, errResp{err.Error()})
		return
	}
	if len(data) == 0 {
		writeJSON(w, 400, errResp{"empty file"})
		return
	}

	format, err := extract.Detect(hdr.Filename, data)
	if err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, errResp{err.Error()})
		return
	}

	profile := r.URL.Query().Get("profile")
	p, err := score.ProfileByName(profile)
	if err != nil {
		writeJSON(w, 400, errResp{err.Error()})
		return
	}

	contentType := hdr.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ref, err := s.S3.PutBytes(r.Context(), "documents", "."+string(format), contentType, data)
	if err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}

	id := uuid.NewString()
	share := uuid.NewString()
	_, err = s.DB.Exec(
		`insert into documents(id, filename, format, size_bytes, object_ref, profile, share_token_hash)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		id, hdr.Filename, string(format), int64(len(data)), ref, p.Name, auth.HashToken(share),
	)
	if err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}

	task := asynq.NewTask("analyze_document", []byte(id))
	if _, err := s.Asynq.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	fmt.Println("Accepted document:", id)
	writeJSON(w, 200, schemas.UploadResponse{DocumentID: id, ShareToken: share, Status: "uploaded"})
}

// reanalyze re-runs the pipeline for an existing document; the previous
// analysis is overwritten when the worker finishes.
func (s *Server) reanalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var cnt int
	if err := s.DB.Get(&cnt, `select count(1) from documents where id=$1`, id); err != nil || cnt == 0 {
		writeJSON(w, 404, errResp{"not found"})
		return
	}
	task := asynq.NewTask("analyze_document", []byte(id))
	if _, err := s.Asynq.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	writeJSON(w, 200, map[string]string{"enqueued": "ok"})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var d db.Document
	if err := s.DB.Get(&d, `select * from documents where id=$1`, id); err != nil {
		writeJSON(w, 404, errResp{"not found"})
		return
	}
	out := schemas.DocumentOut{
		DocumentID: d.ID,
		Filename:   d.Filename,
		Format:     d.Format,
		SizeBytes:  d.SizeBytes,
		Profile:    d.Profile,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Failure != nil {
		out.Failure = *d.Failure
	}
	if len(d.Analysis) > 0 {
		_ = json.Unmarshal(d.Analysis, &out.Analysis)
	}
	writeJSON(w, 200, out)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var d db.Document
	if err := s.DB.Get(&d, `select * from documents where id=$1`, id); err != nil {
		writeJSON(w, 404, errResp{"not found"})
		return
	}

	tok := bearerToken(r)
	if tok == "" || (tok != os.Getenv("API_TOKEN") && auth.HashToken(tok) != d.ShareTokenHash) {
		writeJSON(w, 401, errResp{"unauthorized"})
		return
	}

	out := schemas.ReportOut{DocumentID: d.ID, Filename: d.Filename, Status: d.Status}
	if len(d.Analysis) > 0 {
		var analysis map[string]any
		_ = json.Unmarshal(d.Analysis, &analysis)
		if rep, ok := analysis["report"].(map[string]any); ok {
			if v, ok := rep["overall"].(float64); ok {
				out.Overall = v
			}
			if v, ok := rep["badge"].(string); ok {
				out.Badge = v
			}
			if v, ok := rep["sub_scores"].(map[string]any); ok {
				out.SubScores = v
			}
		}
		if meta, ok := analysis["metadata"].(map[string]any); ok {
			out.Metadata = meta
		}
	}
	writeJSON(w, 200, out)
}
