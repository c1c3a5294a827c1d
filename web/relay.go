// ABOUTME: Relay handlers: /analyze streams model output as SSE content frames,
// ABOUTME: /suggest returns three follow-up questions, /health reports key presence.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/SulemanSupreme/fingertips/fingertips"
	"github.com/SulemanSupreme/fingertips/fingertips/store"
	"github.com/SulemanSupreme/fingertips/llm"
)

// sseDone is the literal sentinel frame that ends every successful stream.
const sseDone = "[DONE]"

// handleHealth reports liveness and whether a model API key is configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"hasApiKey": s.llm != nil,
	})
}

// handleAnalyze validates the request, builds the analysis prompt, and relays
// the upstream completion stream as data frames. Failure before any frame is
// written yields a JSON error; failure after headers are sent yields one
// in-band error frame before the stream closes.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req fingertips.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: query")
		return
	}
	if s.llm == nil {
		writeError(w, http.StatusInternalServerError, "model provider is not configured")
		return
	}

	ind := fingertips.Lookup(req.IndicatorID)
	rows := req.Data
	if len(rows) == 0 && s.data != nil {
		fetched, period, err := s.fetchRows(r.Context(), req.IndicatorID, DefaultAreaType, req.TimePeriod)
		if err != nil {
			log.Printf("analyze data fetch indicator=%d err=%v", req.IndicatorID, err)
		} else {
			rows = fetched
			req.TimePeriod = period
		}
	}

	events, err := s.llm.Stream(r.Context(), llm.Request{
		Model: s.model,
		Messages: []llm.Message{
			llm.SystemMessage(fingertips.AnalysisSystemPrompt(ind, req.TimePeriod, rows)),
			llm.UserMessage(req.Query),
		},
	})
	if err != nil {
		log.Printf("analyze upstream start failed indicator=%d err=%v", req.IndicatorID, err)
		writeError(w, http.StatusBadGateway, "upstream model request failed")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, canFlush := w.(http.Flusher)

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				// Upstream channel closed without a terminal event.
				writeFrame(w, flusher, canFlush, sseDone)
				return
			}
			switch evt.Type {
			case llm.StreamTextDelta:
				if evt.Delta == "" {
					continue
				}
				payload, err := json.Marshal(map[string]string{"content": evt.Delta})
				if err != nil {
					continue
				}
				writeFrame(w, flusher, canFlush, string(payload))
			case llm.StreamErrorEvt:
				log.Printf("analyze mid-stream failure indicator=%d err=%v", req.IndicatorID, evt.Err)
				payload, _ := json.Marshal(map[string]string{"error": "upstream model stream failed"})
				writeFrame(w, flusher, canFlush, string(payload))
				return
			case llm.StreamFinish:
				writeFrame(w, flusher, canFlush, sseDone)
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// handleSuggest asks the model for three follow-up questions. Every failure
// mode degrades to the deterministic fallback questions; the endpoint never
// returns an error for a well-formed request.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req fingertips.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IndicatorID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required field: indicatorId")
		return
	}

	ind := fingertips.Lookup(req.IndicatorID)
	suggestions := fingertips.FallbackSuggestions(ind)

	if s.llm != nil {
		resp, err := s.llm.Complete(r.Context(), llm.Request{
			Model:       s.model,
			Temperature: llm.Float64Ptr(0.7),
			MaxTokens:   llm.IntPtr(256),
			Messages: []llm.Message{
				llm.UserMessage(fingertips.SuggestionPrompt(ind, req.TimePeriod, req.DataSummary)),
			},
		})
		if err != nil {
			log.Printf("suggest upstream failed indicator=%d err=%v", req.IndicatorID, err)
		} else if parsed, ok := parseSuggestions(resp.Content); ok {
			suggestions = parsed
		}
	}

	writeJSON(w, http.StatusOK, fingertips.SuggestionSet{Suggestions: suggestions})
}

// parseSuggestions extracts exactly three non-empty strings from a model
// response. Models sometimes wrap the array in prose or code fences, so a
// failed direct parse retries on the outermost bracketed slice.
func parseSuggestions(content string) ([]string, bool) {
	attempt := func(raw string) ([]string, bool) {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, false
		}
		if len(out) != 3 {
			return nil, false
		}
		for _, s := range out {
			if strings.TrimSpace(s) == "" {
				return nil, false
			}
		}
		return out, true
	}

	if parsed, ok := attempt(content); ok {
		return parsed, true
	}
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		return attempt(content[start : end+1])
	}
	return nil, false
}

// fetchRows pulls observations from the data source and narrows them to one
// area type and period, converting to the request row shape.
func (s *Server) fetchRows(ctx context.Context, indicatorID int, areaType, timePeriod string) ([]fingertips.DataRow, string, error) {
	all, err := s.data.Rows(ctx, indicatorID)
	if err != nil {
		return nil, "", err
	}
	filtered, period := store.Filter(all, areaType, timePeriod)
	return toDataRows(filtered), period, nil
}

func writeFrame(w http.ResponseWriter, flusher http.Flusher, canFlush bool, payload string) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
	if canFlush {
		flusher.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func toDataRows(rows []store.Row) []fingertips.DataRow {
	out := make([]fingertips.DataRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, fingertips.DataRow{
			AreaCode:    row.AreaCode,
			AreaName:    row.AreaName,
			Value:       row.Value,
			Count:       row.Count,
			Denominator: row.Denominator,
		})
	}
	return out
}
