// ABOUTME: Indicator data endpoints backed by the cached Fingertips source:
// ABOUTME: listings, filtered rows, descriptive statistics, rankings, correlation.
package web

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/SulemanSupreme/fingertips/fingertips"
	"github.com/SulemanSupreme/fingertips/fingertips/store"
)

// handleIndicators lists the static indicator catalog.
func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"indicators": fingertips.Catalog(),
	})
}

// handleTimePeriods lists the distinct periods available for an indicator and
// area type, newest first.
func (s *Server) handleTimePeriods(w http.ResponseWriter, r *http.Request) {
	id, areaType, ok := s.dataParams(w, r)
	if !ok {
		return
	}

	rows, err := s.data.Rows(r.Context(), id)
	if err != nil {
		s.dataError(w, id, err)
		return
	}

	periods := store.Periods(rows, areaType)
	latest := ""
	if len(periods) > 0 {
		latest = periods[0]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"indicatorId": id,
		"areaType":    areaType,
		"timePeriods": periods,
		"latest":      latest,
	})
}

// handleData returns filtered observation rows sorted by value descending.
// Optional filters: area_name_contains, min_value, max_value, limit.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	id, areaType, ok := s.dataParams(w, r)
	if !ok {
		return
	}

	rows, period, err := s.filteredRows(r, id, areaType)
	if err != nil {
		s.dataError(w, id, err)
		return
	}

	q := r.URL.Query()
	if needle := strings.ToLower(q.Get("area_name_contains")); needle != "" {
		var kept []fingertips.DataRow
		for _, row := range rows {
			if strings.Contains(strings.ToLower(row.AreaName), needle) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if min, err := strconv.ParseFloat(q.Get("min_value"), 64); err == nil {
		rows = filterByValue(rows, func(v float64) bool { return v >= min })
	}
	if max, err := strconv.ParseFloat(q.Get("max_value"), 64); err == nil {
		rows = filterByValue(rows, func(v float64) bool { return v <= max })
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rows[i].Value, rows[j].Value
		if vi == nil {
			return false
		}
		if vj == nil {
			return true
		}
		return *vi > *vj
	})

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"indicator":  fingertips.Lookup(id),
		"areaType":   areaType,
		"timePeriod": period,
		"count":      len(rows),
		"data":       rows,
	})
}

// handleSummary returns descriptive statistics over the non-null values for
// one indicator, area type, and period.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, areaType, ok := s.dataParams(w, r)
	if !ok {
		return
	}

	rows, period, err := s.filteredRows(r, id, areaType)
	if err != nil {
		s.dataError(w, id, err)
		return
	}

	desc, err := fingertips.Describe(rows)
	if err != nil {
		writeError(w, http.StatusNotFound, "no data for this selection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"indicator":  fingertips.Lookup(id),
		"areaType":   areaType,
		"timePeriod": period,
		"summary":    desc,
	})
}

// handleRankings returns the top or bottom n areas by value.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	id, areaType, ok := s.dataParams(w, r)
	if !ok {
		return
	}

	rows, period, err := s.filteredRows(r, id, areaType)
	if err != nil {
		s.dataError(w, id, err)
		return
	}

	q := r.URL.Query()
	n := 10
	if v, err := strconv.Atoi(q.Get("n")); err == nil && v > 0 {
		n = v
	}
	order := q.Get("order")
	if order != "bottom" {
		order = "top"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"indicator":  fingertips.Lookup(id),
		"areaType":   areaType,
		"timePeriod": period,
		"order":      order,
		"rankings":   fingertips.Rankings(rows, n, order),
	})
}

// handleCorrelation reports the Pearson correlation between area population
// (denominator) and indicator value.
func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	id, areaType, ok := s.dataParams(w, r)
	if !ok {
		return
	}

	rows, period, err := s.filteredRows(r, id, areaType)
	if err != nil {
		s.dataError(w, id, err)
		return
	}

	result, err := fingertips.Correlation(rows)
	if err != nil {
		writeError(w, http.StatusNotFound, "not enough data for correlation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"indicator":   fingertips.Lookup(id),
		"areaType":    areaType,
		"timePeriod":  period,
		"correlation": result,
	})
}

// handleClearCache drops the local observation cache when the source has one.
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if clearer, ok := s.data.(CacheClearer); ok {
		if err := clearer.ClearCache(r.Context()); err != nil {
			log.Printf("cache clear failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to clear cache")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cache cleared"})
}

// dataParams validates the data source and the indicator_id query parameter,
// and resolves the requested area type.
func (s *Server) dataParams(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	if s.data == nil {
		writeError(w, http.StatusServiceUnavailable, "data source is not configured")
		return 0, "", false
	}
	id, err := strconv.Atoi(r.URL.Query().Get("indicator_id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Missing required field: indicator_id")
		return 0, "", false
	}
	areaType := r.URL.Query().Get("area_type")
	if areaType == "" {
		areaType = DefaultAreaType
	}
	return id, areaType, true
}

func (s *Server) filteredRows(r *http.Request, id int, areaType string) ([]fingertips.DataRow, string, error) {
	all, err := s.data.Rows(r.Context(), id)
	if err != nil {
		return nil, "", err
	}
	filtered, period := store.Filter(all, areaType, r.URL.Query().Get("time_period"))
	return toDataRows(filtered), period, nil
}

func (s *Server) dataError(w http.ResponseWriter, id int, err error) {
	log.Printf("data fetch indicator=%d err=%v", id, err)
	writeError(w, http.StatusBadGateway, "failed to fetch indicator data")
}

func filterByValue(rows []fingertips.DataRow, keep func(float64) bool) []fingertips.DataRow {
	var out []fingertips.DataRow
	for _, row := range rows {
		if row.Value != nil && keep(*row.Value) {
			out = append(out, row)
		}
	}
	return out
}
