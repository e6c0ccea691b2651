// Package draftgen implements the email drafting service against the Gemini
// generateContent API.
package draftgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promail/internal/domain"
)

const geminiDefaultTimeout = 30 * time.Second

// GeminiOptions configures the drafter.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiDrafter produces subject/body drafts via Gemini.
type GeminiDrafter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64         `json:"temperature,omitempty"`
	CandidateCount   int             `json:"candidateCount,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type draftPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// draftSchema constrains the model to the subject/body shape.
var draftSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "subject": {"type": "STRING", "description": "The email subject line."},
    "body": {"type": "STRING", "description": "The full body text of the email."}
  },
  "required": ["subject", "body"]
}`)

// NewGeminiDrafter validates the options and builds a drafter.
func NewGeminiDrafter(opts GeminiOptions) (*GeminiDrafter, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiDrafter{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Draft requests one generation. Any transport, status, or decode problem is
// reported as an error; the caller decides what the user sees.
func (g *GeminiDrafter) Draft(ctx context.Context, req domain.DraftRequest) (*domain.Draft, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{{
				Text: buildDraftPrompt(req),
			}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.5,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   draftSchema,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	text := extractText(out)
	if text == "" {
		return nil, errors.New("gemini: empty candidate text")
	}
	parsed, err := parseDraftPayload(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse draft payload: %w", err)
	}
	return &domain.Draft{
		Subject: coalesce(parsed.Subject, "No Subject Generated"),
		Body:    coalesce(parsed.Body, "No Body Generated"),
	}, nil
}

func (g *GeminiDrafter) endpoint() string {
	base := strings.TrimRight(g.baseURL, "/")
	model := url.PathEscape(g.model)
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, model, url.QueryEscape(g.apiKey))
}

func buildDraftPrompt(req domain.DraftRequest) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Generate a professional email in %s based on the following details:\n", req.Language)
	fmt.Fprintf(sb, "- Context/Purpose: %s\n", req.Description)
	fmt.Fprintf(sb, "- Tone: %s\n", req.Tone)
	fmt.Fprintf(sb, "- Category: %s\n\n", req.Category)
	sb.WriteString("Please ensure the email includes:\n")
	sb.WriteString("1. A concise and clear subject line.\n")
	sb.WriteString("2. A professional greeting.\n")
	sb.WriteString("3. A well-structured body with appropriate paragraphs.\n")
	sb.WriteString("4. A professional closing/sign-off.\n")
	sb.WriteString("5. Placeholders in [brackets] for names or specific details that need user input.\n")
	if req.Language == domain.LanguageArabic {
		sb.WriteString("\nEnsure formal phrasing appropriate for professional business communication in the Middle East.\n")
	}
	return sb.String()
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func parseDraftPayload(raw string) (draftPayload, error) {
	var decoded draftPayload
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return decoded, errors.New("empty payload")
	}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return decoded, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
