package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type GeminiClient struct {
	apiKey string
	model  string
	http   *http.Client
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

// SuggestDeal sends the generation request to Gemini and returns a validated
// suggestion. Network and 5xx/429 failures come back as transient errors;
// everything the model got wrong (bad JSON, unknown SKU, broken prices) is
// permanent because resending the same prompt will not fix it.
func (g *GeminiClient) SuggestDeal(ctx context.Context, req SuggestionRequest) (*Result, error) {
	if g.apiKey == "" {
		return nil, Permanent(errors.New("missing GEMINI_API_KEY"))
	}
	if g.model == "" {
		return nil, Permanent(errors.New("missing GEMINI_MODEL"))
	}
	if len(req.InventoryItems) == 0 {
		return nil, Permanent(errors.New("no inventory candidates for generation"))
	}

	prompt := BuildDealPrompt(req)

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.model,
		g.apiKey,
	)

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0.7,
			"maxOutputTokens":  1024,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, Permanent(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, Transient(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, Transient(fmt.Errorf("gemini api error %d: %s", resp.StatusCode, raw))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Permanent(fmt.Errorf("gemini api error %d: %s", resp.StatusCode, raw))
	}

	// Gemini response shape
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, Permanent(fmt.Errorf("unexpected gemini response shape: %w", err))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, Permanent(errors.New("empty gemini response"))
	}

	ds, err := ParseSuggestion(result.Candidates[0].Content.Parts[0].Text, req.InventoryItems)
	if err != nil {
		return nil, err
	}

	return &Result{
		Suggestion: *ds,
		ModelName:  g.model,
		Prompt:     prompt,
		Raw:        json.RawMessage(raw),
	}, nil
}
