package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"veridoc/internal/db"
	"veridoc/internal/schemas"
	"veridoc/internal/sentiment"
)

type productRow struct {
	db.Product
	ReviewCount int `db:"review_count"`
}

const productQuery = `
select p.*, count(r.id) as review_count
from products p
left join reviews r on r.product_id = p.id
`

func productOut(row productRow) schemas.ProductOut {
	out := schemas.ProductOut{
		ProductID:   row.ID,
		Name:        row.Name,
		Description: row.Description,
		PriceCents:  row.PriceCents,
		ReviewCount: row.ReviewCount,
	}
	if len(row.Sentiment) > 0 {
		_ = json.Unmarshal(row.Sentiment, &out.Sentiment)
	}
	return out
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var rows []productRow
	if err := s.DB.Select(&rows, productQuery+` group by p.id order by p.name`); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}
	out := make([]schemas.ProductOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, productOut(row))
	}
	writeJSON(w, 200, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var row productRow
	if err := s.DB.Get(&row, productQuery+` where p.id=$1 group by p.id`, id); err != nil {
		writeJSON(w, 404, errResp{"not found"})
		return
	}
	writeJSON(w, 200, productOut(row))
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	var cnt int
	if err := s.DB.Get(&cnt, `select count(1) from products where id=$1`, productID); err != nil || cnt == 0 {
		writeJSON(w, 404, errResp{"product not found"})
		return
	}

	var req schemas.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, errResp{err.Error()})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeJSON(w, 400, errResp{"rating must be 1..5"})
		return
	}

	id := uuid.NewString()
	reviewScore := sentiment.Score(req.Rating, req.Body)
	var out schemas.ReviewOut
	err := s.DB.Get(&out.CreatedAt,
		`insert into reviews(id, product_id, author, rating, body, score)
		 values($1,$2,$3,$4,$5,$6) returning created_at`,
		id, productID, req.Author, req.Rating, req.Body, reviewScore,
	)
	if err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}

	// Aggregation runs off the request path.
	task := asynq.NewTask("score_reviews", []byte(productID))
	if _, err := s.Asynq.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		writeJSON(w, 500, errResp{err.Error()})
		return
	}

	out.ReviewID = id
	out.Author = req.Author
	out.Rating = req.Rating
	out.Body = req.Body
	out.Score = reviewScore
	writeJSON(w, 200, out)
}

func (s *Server) getSentiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var raw []byte
	if err := s.DB.Get(&raw, `select sentiment from products where id=$1`, id); err != nil {
		writeJSON(w, 404, errResp{"not found"})
		return
	}
	if len(raw) == 0 {
		writeJSON(w, 200, sentiment.Aggregated(nil))
		return
	}
	var agg map[string]any
	_ = json.Unmarshal(raw, &agg)
	writeJSON(w, 200, agg)
}
