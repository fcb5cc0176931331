package db

import "time"

type Document struct {
	ID             string    `db:"id"`
	Filename       string    `db:"filename"`
	Format         string    `db:"format"`
	SizeBytes      int64     `db:"size_bytes"`
	ObjectRef      string    `db:"object_ref"`
	Profile        string    `db:"profile"`
	Status         string    `db:"status"`
	Failure        *string   `db:"failure"`
	ShareTokenHash string    `db:"share_token_hash"`
	Analysis       []byte    `db:"analysis"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Quiz struct {
	ID            string    `db:"id"`
	DocumentID    string    `db:"document_id"`
	Status        string    `db:"status"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
}

type QuizQuestion struct {
	ID      string `db:"id"`
	QuizID  string `db:"quiz_id"`
	Seq     int    `db:"seq"`
	Prompt  string `db:"prompt"`
	Options []byte `db:"options"`
	Answer  string `db:"answer"`
}

type Product struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	Sentiment   []byte    `db:"sentiment"`
	CreatedAt   time.Time `db:"created_at"`
}

type Review struct {
	ID        string    `db:"id"`
	ProductID string    `db:"product_id"`
	Author    string    `db:"author"`
	Rating    int       `db:"rating"`
	Body      string    `db:"body"`
	Score     float64   `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}
