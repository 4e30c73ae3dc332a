/*
Package geminiservice talks to Google's Gemini text-generation REST API.
It owns the prompt transport only: prompts are built by the experiments,
replies are raw completion text that the extractor turns into typed results.
*/
package geminiservice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
)

// --- Gemini API Configuration ---
const (
	geminiAPIURL   = "https://generativelanguage.googleapis.com/v1beta/models/"
	geminiModel    = "gemini-2.0-flash-exp"
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	requestTimeout = 30 * time.Second

	replyCacheSize = 128
)

// Generator is the view of the client the experiments depend on.
// Tests substitute a stub so no handler ever needs a live API key.
type Generator interface {
	Generate(ctx context.Context, label, systemPrompt, userPrompt string) (string, error)
}

// --- Structs for Gemini API Request/Response ---

type geminiPayload struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client is the process-wide Gemini handle. It is initialized once at startup
// and read-only afterwards.
type Client struct {
	apiKey string
	model  string
	http   *http.Client
	cache  *lru.Cache[string, string]
}

// NewClient reads GEMINI_API_KEY and builds the client. A missing key is a
// fatal startup condition, reported here rather than on the first request.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	cache, err := lru.New[string, string](replyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply cache: %w", err)
	}

	return &Client{
		apiKey: apiKey,
		model:  geminiModel,
		http:   &http.Client{Timeout: requestTimeout},
		cache:  cache,
	}, nil
}

// Generate sends the prompt pair to Gemini and returns the first candidate's
// raw text. Identical prompts are served from the LRU cache, which keeps the
// demo endpoints from burning quota on every page load.
func (c *Client) Generate(ctx context.Context, label, systemPrompt, userPrompt string) (string, error) {
	cacheKey := promptDigest(systemPrompt, userPrompt)
	if text, ok := c.cache.Get(cacheKey); ok {
		log.Info().Str("label", label).Msg("Serving Gemini reply from cache")
		return text, nil
	}

	payload := geminiPayload{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:     0.7,
			TopP:            0.9,
			TopK:            40,
			MaxOutputTokens: 2048,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", &faults.GenerationError{Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	url := geminiAPIURL + c.model + ":generateContent?key=" + c.apiKey
	var lastErr error

	// Exponential backoff retry loop
	for i := 0; i < maxRetries; i++ {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)

		req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewBuffer(payloadBytes))
		if err != nil {
			cancel()
			return "", &faults.GenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
		}
		req.Header.Set("Content-Type", "application/json")

		log.Info().Str("label", label).Msgf("Attempt %d: Calling Gemini API...", i+1)

		resp, err := c.http.Do(req)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Warn().Err(lastErr).Str("label", label).Msgf("Attempt %d failed", i+1)
			time.Sleep(initialBackoff * time.Duration(math.Pow(2, float64(i))))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			// Read the error body from Google before retrying
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			cancel()
			lastErr = fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, string(body))
			log.Warn().Err(lastErr).Str("label", label).Msgf("Attempt %d failed", i+1)
			time.Sleep(initialBackoff * time.Duration(math.Pow(2, float64(i))))
			continue
		}

		// Success
		var geminiResp geminiResponse
		if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
			resp.Body.Close()
			cancel()
			return "", &faults.GenerationError{Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		resp.Body.Close()
		cancel()

		if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
			text := geminiResp.Candidates[0].Content.Parts[0].Text
			c.cache.Add(cacheKey, text)
			return text, nil
		}

		return "", &faults.GenerationError{Err: fmt.Errorf("no content found in Gemini response")}
	}

	return "", &faults.GenerationError{
		Err: fmt.Errorf("failed to call Gemini API after %d attempts: %w", maxRetries, lastErr),
	}
}

// GenerateAndParse calls Generate and decodes the reply into out,
// stripping any markdown code fence first.
func GenerateAndParse(ctx context.Context, gen Generator, label, systemPrompt, userPrompt string, out interface{}) error {
	raw, err := gen.Generate(ctx, label, systemPrompt, userPrompt)
	if err != nil {
		return err
	}
	if err := ExtractJSON(raw, out); err != nil {
		log.Warn().Err(err).Str("label", label).Msg("Gemini reply was not valid JSON")
		return err
	}
	return nil
}

func promptDigest(systemPrompt, userPrompt string) string {
	h := sha256.New()
	h.Write([]byte(systemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	return hex.EncodeToString(h.Sum(nil))
}
