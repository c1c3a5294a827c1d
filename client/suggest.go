// ABOUTME: One-shot suggestion fetcher. Failures are non-fatal: the caller
// ABOUTME: gets an empty set and the panel simply shows nothing.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/SulemanSupreme/fingertips/fingertips"
)

// SuggestionFetcher retrieves follow-up question suggestions from the relay.
type SuggestionFetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewSuggestionFetcher creates a fetcher against the given relay base URL.
func NewSuggestionFetcher(baseURL string) *SuggestionFetcher {
	return &SuggestionFetcher{
		baseURL:    ResolveAIBaseURL(baseURL),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch asks for suggestions for one indicator. Any failure logs and returns
// an empty slice; suggestions are decoration, never a blocking dependency.
func (f *SuggestionFetcher) Fetch(ctx context.Context, req fingertips.SuggestRequest) []string {
	body, err := json.Marshal(req)
	if err != nil {
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/suggest", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("suggestion fetch failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("suggestion fetch status=%d", resp.StatusCode)
		return nil
	}

	var set fingertips.SuggestionSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		log.Printf("suggestion decode failed: %v", err)
		return nil
	}
	return set.Suggestions
}
