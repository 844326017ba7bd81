// Package ai talks to the Gemini generateContent API for quiz generation and answer judging.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/model"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	maxBodyBytes   = 1 << 20
)

// Config configures the Gemini client.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	GenerateTimeout time.Duration
	JudgeTimeout    time.Duration
	HTTPClient      *http.Client
}

// Client is a Gemini generateContent client.
type Client struct {
	apiKey          string
	model           string
	baseURL         string
	generateTimeout time.Duration
	judgeTimeout    time.Duration
	http            *http.Client
	log             zerolog.Logger
}

// NewClient creates a Client. Zero timeouts fall back to 60s for generation and 30s for judging.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = defaultModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	generateTimeout := cfg.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = 60 * time.Second
	}
	judgeTimeout := cfg.JudgeTimeout
	if judgeTimeout <= 0 {
		judgeTimeout = 30 * time.Second
	}

	return &Client{
		apiKey:          strings.TrimSpace(cfg.APIKey),
		model:           modelName,
		baseURL:         baseURL,
		generateTimeout: generateTimeout,
		judgeTimeout:    judgeTimeout,
		http:            httpClient,
		log:             log.With().Str("component", "gemini_client").Logger(),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content      `json:"contents"`
	GenerationConfig map[string]any `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// GenerateQuiz asks the model for a set of questions of the given type, topic and level.
func (c *Client) GenerateQuiz(ctx context.Context, questionType, topic, level string) ([]model.GeneratedQuestion, error) {
	kind, err := ParseQuizKind(questionType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	text, err := c.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: quizPrompt(kind, topic, level)}}}},
		GenerationConfig: map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   quizSchema(kind),
		},
	})
	if err != nil {
		return nil, err
	}

	var quiz []model.GeneratedQuestion
	if err := json.Unmarshal([]byte(text), &quiz); err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Err: fmt.Errorf("parse quiz: %w", err)}
	}

	c.log.Debug().
		Str("type", string(kind)).
		Str("topic", topic).
		Int("questions", len(quiz)).
		Msg("Quiz generated")

	return quiz, nil
}

// JudgeFreeText asks the model whether submitted answers question like reference does.
// Every failure yields JudgeFailureVerdict.
func (c *Client) JudgeFreeText(ctx context.Context, question, reference, submitted string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.judgeTimeout)
	defer cancel()

	text, err := c.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: judgePrompt(question, reference, submitted)}}}},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Answer judgment failed, grading as incorrect")
		return JudgeFailureVerdict
	}
	return affirmative(text)
}

// generate posts one generateContent call and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Drop the URL from the error, it carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{
			Status:  resp.StatusCode,
			Details: jsonOrNil(raw),
			Err:     errors.New("failed to connect to Gemini API"),
		}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UpstreamError{Status: http.StatusInternalServerError, Err: fmt.Errorf("decode response: %w", err)}
	}
	text := out.firstText()
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{
			Status:  http.StatusInternalServerError,
			Details: jsonOrNil(raw),
			Err:     errors.New("invalid response from Gemini API"),
		}
	}
	return text, nil
}

func jsonOrNil(raw []byte) json.RawMessage {
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	return nil
}
