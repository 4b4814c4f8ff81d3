package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/readquiz/internal/catalog"
	"github.com/abhisek/readquiz/internal/generation"
)

// RequestIDHeader carries a per-request id that the backend echoes and logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to the generation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ generation.Backend = (*Client)(nil)

// New creates a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// TextRequest is the body of POST /text/generate.
type TextRequest struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Level    string `json:"level"`
	Style    string `json:"style"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// TextResponse is the body returned by POST /text/generate.
type TextResponse struct {
	GeneratedText string   `json:"generated_text"`
	Score         *float64 `json:"score,omitempty"`
	Level         string   `json:"level"`
	Language      string   `json:"language"`
	Style         string   `json:"style"`
	Iterations    int      `json:"iterations"`
	FailedTexts   []string `json:"failed_texts"`
	PromptsUsed   []string `json:"prompts_used"`
}

// QuestionsRequest is the body of POST /questions/generate.
type QuestionsRequest struct {
	GeneratedText string `json:"generated_text"`
	NumQuestions  int    `json:"num_questions"`
	Language      string `json:"language"`
	ChoicesNum    int    `json:"choices_num"`
	Provider      string `json:"provider"`
	Model         string `json:"model,omitempty"`
}

// QuestionPayload is one question on the wire.
type QuestionPayload struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

// QuestionsResponse is the body returned by POST /questions/generate.
type QuestionsResponse struct {
	Questions []QuestionPayload `json:"questions"`
}

// ModelInfo is one entry of GET /models.
type ModelInfo struct {
	ID       string         `json:"id"`
	Provider string         `json:"provider"`
	Details  map[string]any `json:"details,omitempty"`
}

// ModelsResponse is the body returned by GET /models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ErrorResponse is the error body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// GenerateText requests a passage for cfg's text provider and model.
func (c *Client) GenerateText(ctx context.Context, cfg generation.Config) (generation.Passage, error) {
	body := TextRequest{
		Topic:    cfg.Topic,
		Language: cfg.Language,
		Level:    string(cfg.Level),
		Style:    cfg.Style,
		Provider: cfg.TextProvider,
		Model:    cfg.TextModel,
	}

	var out TextResponse
	status, raw, err := c.do(ctx, http.MethodPost, "/text/generate", body, &out)
	if err != nil {
		return generation.Passage{}, &generation.TransportError{Op: "generate text", Err: err}
	}
	if !isSuccess(status.code) {
		return generation.Passage{}, textError(status, raw)
	}
	return generation.Passage{Text: out.GeneratedText}, nil
}

// GenerateQuestions requests a question set for passage.
func (c *Client) GenerateQuestions(ctx context.Context, passage generation.Passage, cfg generation.Config) (generation.QuestionSet, error) {
	body := QuestionsRequest{
		GeneratedText: passage.Text,
		NumQuestions:  cfg.NumQuestions,
		Language:      cfg.Language,
		ChoicesNum:    cfg.ChoicesPerQuestion,
		Provider:      cfg.QuestionProvider,
		Model:         cfg.QuestionModel,
	}

	var out QuestionsResponse
	status, _, err := c.do(ctx, http.MethodPost, "/questions/generate", body, &out)
	if err != nil {
		return nil, &generation.TransportError{Op: "generate questions", Err: err}
	}
	if !isSuccess(status.code) {
		return nil, &generation.ServerError{
			Status:  status.code,
			Message: fmt.Sprintf("Failed to generate questions: %d %s", status.code, status.text),
		}
	}

	qs := make(generation.QuestionSet, 0, len(out.Questions))
	for i, p := range out.Questions {
		q := generation.Question{Prompt: p.Question, Choices: p.Choices, Answer: p.Answer}
		if err := q.Validate(); err != nil {
			return nil, &generation.TransportError{
				Op:  "decode questions",
				Err: fmt.Errorf("question %d: %w", i+1, err),
			}
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// ListModels fetches the flat model listing.
func (c *Client) ListModels(ctx context.Context) ([]catalog.Listing, error) {
	var out ModelsResponse
	status, _, err := c.do(ctx, http.MethodGet, "/models", nil, &out)
	if err != nil {
		return nil, &generation.TransportError{Op: "list models", Err: err}
	}
	if !isSuccess(status.code) {
		return nil, &generation.ServerError{
			Status:  status.code,
			Message: fmt.Sprintf("Failed to load models: %d %s", status.code, status.text),
		}
	}

	listings := make([]catalog.Listing, len(out.Models))
	for i, m := range out.Models {
		listings[i] = catalog.Listing{ID: m.ID, Provider: m.Provider}
	}
	return listings, nil
}

type statusLine struct {
	code int
	text string
}

// do sends the request and decodes a 2xx body into out. Non-2xx bodies are
// returned raw for the caller to interpret.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (statusLine, []byte, error) {
	var reader io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return statusLine{}, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return statusLine{}, nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return statusLine{}, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return statusLine{}, nil, fmt.Errorf("read response: %w", err)
	}

	status := statusLine{code: resp.StatusCode, text: statusText(resp)}
	if !isSuccess(resp.StatusCode) {
		return status, raw, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status, raw, fmt.Errorf("decode response: %w", err)
	}
	return status, raw, nil
}

// textError builds the display message for a failed text request.
func textError(status statusLine, raw []byte) *generation.ServerError {
	detail := extractDetail(raw)
	if detail == "" {
		detail = status.text
	}

	msg := "Failed to generate text: " + detail
	if strings.Contains(detail, "API key") || strings.Contains(detail, "GROQ_API_KEY") {
		msg = fmt.Sprintf("API key error: %s. Make sure to set up your .env file with the GROQ_API_KEY.", detail)
	}
	return &generation.ServerError{Status: status.code, Message: msg}
}

// extractDetail pulls the "detail" field out of an error body. String
// details are used verbatim; structured ones (validation errors) are kept
// as compact JSON.
func extractDetail(raw []byte) string {
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	if string(body.Detail) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body.Detail); err != nil {
		return string(body.Detail)
	}
	return buf.String()
}

// statusText returns the reason phrase of the response status line.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
