package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"veridoc/internal/convert"
	"veridoc/internal/db"
	"veridoc/internal/extract"
	"veridoc/internal/quiz"
	"veridoc/internal/schemas"
	"veridoc/internal/score"
	"veridoc/internal/sentiment"
	"veridoc/internal/storage"
)

type Server struct {
	DB        *sqlx.DB
	S3        *storage.Client
	Converter *convert.Converter
}

func (s *Server) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc("analyze_document", s.handleAnalyze)
	mux.HandleFunc("build_quiz", s.handleBuildQuiz)
	mux.HandleFunc("score_reviews", s.handleScoreReviews)
	return mux
}

// handleAnalyze runs the extract -> score pipeline for one document.
// Domain failures are persisted on the row and return nil so asynq does not
// retry; only infrastructure errors propagate.
func (s *Server) handleAnalyze(ctx context.Context, t *asynq.Task) error {
	id := string(t.Payload())
	log.Printf("Starting analysis for document %s", id)

	var doc db.Document
	if err := s.DB.GetContext(ctx, &doc, `select * from documents where id=$1`, id); err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx,
		`update documents set status='processing', updated_at=now() where id=$1`, id); err != nil {
		return err
	}

	data, err := s.S3.GetBytes(ctx, doc.ObjectRef)
	if err != nil {
		return err
	}

	res, err := extract.Extract(extract.Format(doc.Format), data)
	extractor := "native"
	if err != nil && errors.Is(err, extract.ErrNoText) && s.Converter != nil {
		log.Printf("document %s: native extraction empty, trying converter", id)
		text, cerr := s.Converter.ToText(ctx, doc.Filename, data)
		if cerr == nil {
			if res == nil {
				res = &extract.Result{Format: extract.Format(doc.Format)}
			}
			res.Text = text
			extractor = "libreoffice"
			err = nil
		} else {
			log.Printf("document %s: converter failed: %v", id, cerr)
		}
	}
	if err != nil {
		return s.markFailed(ctx, id, err)
	}

	p, err := score.ProfileByName(doc.Profile)
	if err != nil {
		return s.markFailed(ctx, id, err)
	}
	report := score.Evaluate(res.Text, res.Meta, p)

	textRef, err := s.S3.PutBytes(ctx, "texts", ".txt", "text/plain; charset=utf-8", []byte(res.Text))
	if err != nil {
		return err
	}

	analysis := schemas.AnalysisDoc{
		Report:    toMap(report),
		Metadata:  toMap(res.Meta),
		TextChars: len(res.Text),
		Extractor: extractor,
		ScoredAt:  time.Now().UTC(),
	}
	analysisMap := toMap(analysis)
	analysisMap["text_ref"] = textRef

	// Archive the full snapshot alongside the document bytes.
	if archiveRef, err := s.S3.PutJSON(ctx, "analyses", analysisMap); err == nil {
		analysisMap["archive_ref"] = archiveRef
	} else {
		log.Printf("document %s: archive snapshot failed: %v", id, err)
	}

	b, _ := json.Marshal(analysisMap)
	_, err = s.DB.ExecContext(ctx,
		`update documents set status='analyzed', failure=null, analysis=$1, updated_at=now() where id=$2`,
		b, id)
	if err != nil {
		return err
	}
	log.Printf("document %s analyzed: overall=%.1f badge=%s", id, report.Overall, report.Badge)
	return nil
}

func (s *Server) markFailed(ctx context.Context, id string, cause error) error {
	log.Printf("document %s failed: %v", id, cause)
	_, err := s.DB.ExecContext(ctx,
		`update documents set status='failed', failure=$1, updated_at=now() where id=$2`,
		cause.Error(), id)
	return err
}

// handleBuildQuiz segments the document's extracted text into MCQ tuples.
func (s *Server) handleBuildQuiz(ctx context.Context, t *asynq.Task) error {
	quizID := string(t.Payload())
	log.Printf("Building quiz %s", quizID)

	var q db.Quiz
	if err := s.DB.GetContext(ctx, &q, `select * from quizzes where id=$1`, quizID); err != nil {
		return err
	}
	var analysisRaw []byte
	if err := s.DB.GetContext(ctx, &analysisRaw,
		`select analysis from documents where id=$1`, q.DocumentID); err != nil {
		return err
	}
	var analysis map[string]any
	if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
		return err
	}
	textRef, _ := analysis["text_ref"].(string)
	if textRef == "" {
		log.Printf("quiz %s: document %s has no extracted text", quizID, q.DocumentID)
		_, err := s.DB.ExecContext(ctx, `update quizzes set status='empty' where id=$1`, quizID)
		return err
	}
	text, err := s.S3.GetBytes(ctx, textRef)
	if err != nil {
		return err
	}

	questions := quiz.Parse(string(text))
	status := "built"
	if len(questions) == 0 {
		status = "empty"
	}

	return db.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		for _, question := range questions {
			opts, _ := json.Marshal(question.Options)
			if _, err := tx.Exec(
				`insert into quiz_questions(id, quiz_id, seq, prompt, options, answer)
				 values($1,$2,$3,$4,$5,$6)`,
				uuid.NewString(), quizID, question.Seq, question.Prompt, opts, question.Answer,
			); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`update quizzes set status=$1, question_count=$2 where id=$3`,
			status, len(questions), quizID)
		return err
	})
}

// handleScoreReviews recomputes a product's aggregate sentiment.
func (s *Server) handleScoreReviews(ctx context.Context, t *asynq.Task) error {
	productID := string(t.Payload())
	log.Printf("Aggregating sentiment for product %s", productID)

	var scores []float64
	if err := s.DB.SelectContext(ctx, &scores,
		`select score from reviews where product_id=$1`, productID); err != nil {
		return err
	}
	agg := sentiment.Aggregated(scores)
	b, _ := json.Marshal(agg)
	_, err := s.DB.ExecContext(ctx,
		`update products set sentiment=$1 where id=$2`, b, productID)
	return err
}

func toMap(v any) map[string]any {
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func Run(addr string, dbx *sqlx.DB, s3c *storage.Client, conv *convert.Converter) error {
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{Concurrency: 5})
	w := &Server{DB: dbx, S3: s3c, Converter: conv}
	return srv.Run(w.mux())
}
