// ABOUTME: Upstream data source for indicator observations: the public Fingertips CSV API.
// ABOUTME: Defines the Source interface the web layer depends on, plus filtering helpers.

package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultUpstreamURL is the public Fingertips API base.
const DefaultUpstreamURL = "https://fingertips.phe.org.uk/api"

// Row is one observation for an indicator: one area in one time period.
// Value, Count, and Denominator are nil when the source publishes no figure.
type Row struct {
	AreaCode    string
	AreaName    string
	AreaType    string
	TimePeriod  string
	Value       *float64
	Count       *int
	Denominator *int
}

// Source provides all observations for an indicator across every available
// geography. The Store decorates a Source with caching; tests substitute
// fixture-backed fakes.
type Source interface {
	Rows(ctx context.Context, indicatorID int) ([]Row, error)
}

// UpstreamClient fetches observations from the Fingertips CSV endpoint.
type UpstreamClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewUpstreamClient creates a client against the given base URL, defaulting
// to the public service.
func NewUpstreamClient(baseURL string) *UpstreamClient {
	if baseURL == "" {
		baseURL = DefaultUpstreamURL
	}
	return &UpstreamClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Rows downloads and parses the all-geography CSV for one indicator.
func (c *UpstreamClient) Rows(ctx context.Context, indicatorID int) ([]Row, error) {
	url := fmt.Sprintf("%s/all_data/csv/by_indicator_id?indicator_ids=%d", c.BaseURL, indicatorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching indicator %d: %w", indicatorID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d for indicator %d", resp.StatusCode, indicatorID)
	}

	return parseCSV(resp.Body)
}

// parseCSV extracts the columns the dashboard uses from the Fingertips CSV
// export, addressing them by header name so column reordering upstream does
// not break parsing.
func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Area Code", "Area Name", "Area Type", "Time period", "Value"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV missing column %q", required)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}

		row := Row{
			AreaCode:   field(record, col, "Area Code"),
			AreaName:   field(record, col, "Area Name"),
			AreaType:   field(record, col, "Area Type"),
			TimePeriod: field(record, col, "Time period"),
		}
		row.Value = parseFloat(field(record, col, "Value"))
		row.Count = parseInt(field(record, col, "Count"))
		row.Denominator = parseInt(field(record, col, "Denominator"))
		rows = append(rows, row)
	}
	return rows, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	// Counts occasionally arrive with a decimal point.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(v)
	return &n
}

// Filter narrows rows to one area type and time period. An empty period
// selects the latest available for that area type.
func Filter(rows []Row, areaType, timePeriod string) ([]Row, string) {
	if timePeriod == "" {
		timePeriod = LatestPeriod(rows, areaType)
	}
	var out []Row
	for _, row := range rows {
		if row.AreaType == areaType && row.TimePeriod == timePeriod {
			out = append(out, row)
		}
	}
	return out, timePeriod
}

// Periods lists the distinct time periods for an area type, newest first.
// Fingertips period labels ("2023/24") sort correctly as strings.
func Periods(rows []Row, areaType string) []string {
	seen := map[string]bool{}
	var periods []string
	for _, row := range rows {
		if row.AreaType != areaType || seen[row.TimePeriod] {
			continue
		}
		seen[row.TimePeriod] = true
		periods = append(periods, row.TimePeriod)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods
}

// LatestPeriod returns the newest period for an area type, or "".
func LatestPeriod(rows []Row, areaType string) string {
	periods := Periods(rows, areaType)
	if len(periods) == 0 {
		return ""
	}
	return periods[0]
}
