package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

type uploadResp struct {
	DocumentID string `json:"document_id"`
	ShareToken string `json:"share_token"`
	Status     string `json:"status"`
}

type documentResp struct {
	DocumentID string         `json:"document_id"`
	Status     string         `json:"status"`
	Failure    string         `json:"failure,omitempty"`
	Analysis   map[string]any `json:"analysis,omitempty"`
}

type reportResp struct {
	Overall   float64        `json:"overall"`
	Badge     string         `json:"badge"`
	SubScores map[string]any `json:"sub_scores"`
}

type quizResp struct {
	QuizID        string `json:"quiz_id"`
	Status        string `json:"status"`
	QuestionCount int    `json:"question_count"`
	Questions     []struct {
		Seq     int      `json:"seq"`
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	} `json:"questions"`
}

type gradeResp struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

const mcqBody = `Red-Black Tree Review

1. What is the maximum height of a Red-Black Tree with n nodes?
A) 2*log(n+1)
B) log(n)
C) n-1
D) n/2
Answer: A

2. What is the color of leaves in a Red-Black Tree?
A) Red
B) Black
C) Can be either
D) Depends on parent
Answer: B

This certified study sheet covers verified exam skills and education references.`

func main() {
	base := envOr("API_BASE_URL", "http://localhost:8000")
	token := envOr("API_TOKEN", "dev-secret-token")

	baseFlag := flag.String("base", base, "API base URL (e.g., http://localhost:8000)")
	tokenFlag := flag.String("token", token, "API token for protected endpoints")
	wait := flag.Duration("wait", 30*time.Second, "How long to poll for the worker to finish each stage")
	flag.Parse()

	httpc := &http.Client{Timeout: 12 * time.Second}

	// 1) Upload a generated DOCX containing MCQ-formatted text
	doc, err := buildDOCX(mcqBody)
	if err != nil {
		fatalf("build docx: %v", err)
	}
	var up uploadResp
	if err := postMultipart(httpc, *baseFlag+"/documents?profile=strict", *tokenFlag, "study-sheet.docx", doc, &up); err != nil {
		fatalf("upload: %v", err)
	}
	fmt.Printf("✅ Uploaded document: id=%s share_token=%s\n", up.DocumentID, up.ShareToken)

	// 2) Poll until analyzed
	var d documentResp
	deadline := time.Now().Add(*wait)
	for {
		if err := getJSON(httpc, fmt.Sprintf("%s/documents/%s", *baseFlag, up.DocumentID), *tokenFlag, &d); err != nil {
			fatalf("get document: %v", err)
		}
		if d.Status == "analyzed" || d.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			fatalf("document stuck in status %q", d.Status)
		}
		time.Sleep(2 * time.Second)
	}
	if d.Status != "analyzed" {
		fatalf("analysis failed: %s", d.Failure)
	}
	fmt.Println("✅ Document analyzed")

	// 3) Fetch the report with the share token (not the API token)
	var rep reportResp
	if err := getJSON(httpc, fmt.Sprintf("%s/documents/%s/report", *baseFlag, up.DocumentID), up.ShareToken, &rep); err != nil {
		fatalf("get report: %v", err)
	}
	fmt.Printf("✅ Report: overall=%.1f badge=%s\n", rep.Overall, rep.Badge)

	// 4) Build a quiz and poll until segmented
	var q quizResp
	if err := postJSON(httpc, fmt.Sprintf("%s/documents/%s/quiz", *baseFlag, up.DocumentID), *tokenFlag, nil, &q); err != nil {
		fatalf("build quiz: %v", err)
	}
	deadline = time.Now().Add(*wait)
	for {
		if err := getJSON(httpc, fmt.Sprintf("%s/quizzes/%s", *baseFlag, q.QuizID), "", &q); err != nil {
			fatalf("get quiz: %v", err)
		}
		if q.Status == "built" || q.Status == "empty" {
			break
		}
		if time.Now().After(deadline) {
			fatalf("quiz stuck in status %q", q.Status)
		}
		time.Sleep(2 * time.Second)
	}
	if q.Status != "built" || q.QuestionCount == 0 {
		fatalf("quiz came back %s with %d questions", q.Status, q.QuestionCount)
	}
	fmt.Printf("✅ Quiz built: %d questions\n", q.QuestionCount)

	// 5) Answer everything with option A and grade
	answers := map[string]string{}
	for _, question := range q.Questions {
		answers[fmt.Sprint(question.Seq)] = "A"
	}
	var g gradeResp
	if err := postJSON(httpc, fmt.Sprintf("%s/quizzes/%s/answers", *baseFlag, q.QuizID), "", map[string]any{"answers": answers}, &g); err != nil {
		fatalf("grade quiz: %v", err)
	}
	fmt.Printf("✅ Graded: %d/%d\n", g.Score, g.Total)

	// 6) Catalog round trip: review a product, read back sentiment
	var products []map[string]any
	if err := getJSON(httpc, *baseFlag+"/products", "", &products); err != nil {
		fatalf("list products: %v", err)
	}
	if len(products) == 0 {
		fatalf("no seeded products")
	}
	pid, _ := products[0]["product_id"].(string)
	review := map[string]any{"author": "smoke", "rating": 5, "body": "Great quality, fast shipping, love it."}
	if err := postJSON(httpc, fmt.Sprintf("%s/products/%s/reviews", *baseFlag, pid), "", review, &map[string]any{}); err != nil {
		fatalf("create review: %v", err)
	}
	time.Sleep(3 * time.Second)
	var agg map[string]any
	if err := getJSON(httpc, fmt.Sprintf("%s/products/%s/sentiment", *baseFlag, pid), "", &agg); err != nil {
		fatalf("get sentiment: %v", err)
	}
	fmt.Printf("✅ Sentiment: %s\n", compactJSON(agg))

	fmt.Printf("🎉 Smoke run OK. DocumentID=%s QuizID=%s\n", up.DocumentID, q.QuizID)
}

// --- helpers ---

// buildDOCX produces a minimal Office Open XML package with one paragraph
// per input line, enough for the extractor to chew on.
func buildDOCX(text string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var body strings.Builder
	for _, line := range strings.Split(text, "\n") {
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(xmlEscape(line))
		body.WriteString("</w:t></w:r></w:p>")
	}
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`,
		"docProps/core.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>Red-Black Tree Review</dc:title><dc:creator>Smoke Tester</dc:creator>
<dcterms:created xsi:type="dcterms:W3CDTF">2024-03-01T10:00:00Z</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">2024-03-02T10:00:00Z</dcterms:modified>
</cp:coreProperties>`,
	}
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func postMultipart(c *http.Client, url, bearer, filename string, data []byte, out any) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("POST %s -> %d: %s", url, res.StatusCode, string(b))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func postJSON(c *http.Client, url, bearer string, body any, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, r)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("POST %s -> %d: %s", url, res.StatusCode, string(b))
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func getJSON(c *http.Client, url, bearer string, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("GET %s -> %d: %s", url, res.StatusCode, string(b))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func compactJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func fatalf(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}
