package schemas

import "time"

// UploadResponse is returned by POST /documents. The share token grants
// read access to the scored report without the API token.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	ShareToken string `json:"share_token"`
	Status     string `json:"status"`
}

type DocumentOut struct {
	DocumentID string         `json:"document_id"`
	Filename   string         `json:"filename"`
	Format     string         `json:"format"`
	SizeBytes  int64          `json:"size_bytes"`
	Profile    string         `json:"profile"`
	Status     string         `json:"status"`
	Failure    string         `json:"failure,omitempty"`
	Analysis   map[string]any `json:"analysis,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ReportOut is the trimmed, share-token-visible view of an analysis.
type ReportOut struct {
	DocumentID string         `json:"document_id"`
	Filename   string         `json:"filename"`
	Status     string         `json:"status"`
	Overall    float64        `json:"overall,omitempty"`
	Badge      string         `json:"badge,omitempty"`
	SubScores  map[string]any `json:"sub_scores,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type QuizOut struct {
	QuizID        string        `json:"quiz_id"`
	DocumentID    string        `json:"document_id"`
	Status        string        `json:"status"`
	QuestionCount int           `json:"question_count"`
	Questions     []QuestionOut `json:"questions,omitempty"`
}

// QuestionOut deliberately has no answer field.
type QuestionOut struct {
	Seq     int      `json:"seq"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type AnswersRequest struct {
	Answers map[int]string `json:"answers"`
}

type ProductOut struct {
	ProductID   string         `json:"product_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price_cents"`
	Sentiment   map[string]any `json:"sentiment,omitempty"`
	ReviewCount int            `json:"review_count"`
}

type ReviewRequest struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

type ReviewOut struct {
	ReviewID  string    `json:"review_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisDoc is the shape persisted into documents.analysis and archived
// to object storage.
type AnalysisDoc struct {
	Report    map[string]any `json:"report"`
	Metadata  map[string]any `json:"metadata"`
	TextChars int            `json:"text_chars"`
	Extractor string         `json:"extractor"`
	ScoredAt  time.Time      `json:"scored_at"`
}
