package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"veridoc/internal/db"
	"veridoc/internal/quiz"
	"veridoc/internal/schemas"
)

// buildQuiz creates a pending quiz row for an analyzed document and hands
// segmentation to the worker.
func (s *Server) buildQuiz(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	var status string
	if err := s.DB.Get(&status, `select status from documents where id=$1`, docID); err != nil {
		writeJSON(w, 404, errResp{"document not found"})
		return
	}
	if status != "analyzed" {
		writeJSON(w, 409, errResp{"document is not analyzed yet"})
		return
	}

	quizID := uuid.NewString()
	if _, err := s.DB.Exec(`insert into quizzes(id, document_id) values($1,$2)`, quizID, docID); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	task := asynq.NewTask("build_quiz", []byte(quizID))
	if _, err := s.Asynq.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	writeJSON(w, 200, schemas.QuizOut{QuizID: quizID, DocumentID: docID, Status: "pending"})
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var q db.Quiz
	if err := s.DB.Get(&q, `select * from quizzes where id=$1`, id); err != nil {
		writeJSON(w, 404, errResp{"not found"})
		return
	}
	out := schemas.QuizOut{
		QuizID:        q.ID,
		DocumentID:    q.DocumentID,
		Status:        q.Status,
		QuestionCount: q.QuestionCount,
	}

	var rows []db.QuizQuestion
	if err := s.DB.Select(&rows, `select * from quiz_questions where quiz_id=$1 order by seq`, id); err == nil {
		for _, row := range rows {
			var opts []string
			_ = json.Unmarshal(row.Options, &opts)
			// Answers stay server-side.
			out.Questions = append(out.Questions, schemas.QuestionOut{
				Seq:     row.Seq,
				Prompt:  row.Prompt,
				Options: opts,
			})
		}
	}
	writeJSON(w, 200, out)
}

func (s *Server) gradeQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req schemas.AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, errResp{err.Error()})
		return
	}

	var rows []db.QuizQuestion
	if err := s.DB.Select(&rows, `select * from quiz_questions where quiz_id=$1 order by seq`, id); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	if len(rows) == 0 {
		writeJSON(w, 404, errResp{"quiz not found or has no questions"})
		return
	}

	questions := make([]quiz.Question, 0, len(rows))
	for _, row := range rows {
		var opts []string
		_ = json.Unmarshal(row.Options, &opts)
		questions = append(questions, quiz.Question{
			Seq:     row.Seq,
			Prompt:  row.Prompt,
			Options: opts,
			Answer:  row.Answer,
		})
	}
	writeJSON(w, 200, quiz.Grade(questions, req.Answers))
}
