// ABOUTME: Tests for CSV parsing and the area-type and period filtering helpers.

package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const fixtureCSV = `Indicator ID,Area Code,Area Name,Area Type,Time period,Value,Count,Denominator
94146,E38000001,NHS Alpha ICB,ICBs,2022/23,41.5,415,1000
94146,E38000001,NHS Alpha ICB,ICBs,2023/24,43.2,432,1000
94146,E38000002,NHS Beta ICB,ICBs,2023/24,,,"500"
94146,E92000001,England,Country,2023/24,42.0,8400,20000
`

func TestParseCSV(t *testing.T) {
	rows, err := parseCSV(strings.NewReader(fixtureCSV))
	if err != nil {
		t.Fatalf("parseCSV() error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	first := rows[0]
	if first.AreaName != "NHS Alpha ICB" || first.AreaType != "ICBs" || first.TimePeriod != "2022/23" {
		t.Errorf("first row = %+v", first)
	}
	if first.Value == nil || *first.Value != 41.5 {
		t.Errorf("Value = %v, want 41.5", first.Value)
	}
	if first.Count == nil || *first.Count != 415 {
		t.Errorf("Count = %v, want 415", first.Count)
	}

	gap := rows[2]
	if gap.Value != nil || gap.Count != nil {
		t.Errorf("blank value/count should parse as nil, got %+v", gap)
	}
	if gap.Denominator == nil || *gap.Denominator != 500 {
		t.Errorf("Denominator = %v, want 500", gap.Denominator)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	if _, err := parseCSV(strings.NewReader("Area Code,Area Name\nX,Y\n")); err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestUpstreamClientRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("indicator_ids"); got != "94146" {
			t.Errorf("indicator_ids = %q, want 94146", got)
		}
		w.Write([]byte(fixtureCSV))
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL)
	rows, err := client.Rows(context.Background(), 94146)
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("len(rows) = %d, want 4", len(rows))
	}
}

func TestUpstreamClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewUpstreamClient(srv.URL).Rows(context.Background(), 94146); err == nil {
		t.Fatal("expected error for non-200 upstream status")
	}
}

func TestFilterDefaultsToLatestPeriod(t *testing.T) {
	rows, _ := parseCSV(strings.NewReader(fixtureCSV))

	filtered, period := Filter(rows, "ICBs", "")
	if period != "2023/24" {
		t.Errorf("period = %q, want 2023/24", period)
	}
	if len(filtered) != 2 {
		t.Fatalf("len(filtered) = %d, want 2", len(filtered))
	}
	for _, row := range filtered {
		if row.AreaType != "ICBs" || row.TimePeriod != "2023/24" {
			t.Errorf("unexpected row %+v", row)
		}
	}
}

func TestFilterExplicitPeriod(t *testing.T) {
	rows, _ := parseCSV(strings.NewReader(fixtureCSV))

	filtered, period := Filter(rows, "ICBs", "2022/23")
	if period != "2022/23" || len(filtered) != 1 {
		t.Errorf("filtered = %+v, period = %q", filtered, period)
	}
}

func TestPeriodsNewestFirst(t *testing.T) {
	rows, _ := parseCSV(strings.NewReader(fixtureCSV))

	periods := Periods(rows, "ICBs")
	if len(periods) != 2 || periods[0] != "2023/24" || periods[1] != "2022/23" {
		t.Errorf("periods = %v", periods)
	}
	if LatestPeriod(rows, "Country") != "2023/24" {
		t.Errorf("LatestPeriod(Country) = %q", LatestPeriod(rows, "Country"))
	}
	if LatestPeriod(rows, "Missing") != "" {
		t.Error("unknown area type should yield empty latest period")
	}
}
