// ABOUTME: Thin data-API client used by the terminal dashboard for indicator
// ABOUTME: listings and observation rows.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/SulemanSupreme/fingertips/fingertips"
)

// DataClient calls the dashboard server's data endpoints.
type DataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDataClient creates a client against the given data API base URL.
func NewDataClient(baseURL string) *DataClient {
	return &DataClient{
		baseURL:    ResolveDataBaseURL(baseURL),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ListIndicators returns the indicator catalog.
func (c *DataClient) ListIndicators(ctx context.Context) ([]fingertips.Indicator, error) {
	var resp struct {
		Indicators []fingertips.Indicator `json:"indicators"`
	}
	if err := c.getJSON(ctx, "/indicators", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Indicators, nil
}

// DataResult is the response of the /data endpoint.
type DataResult struct {
	Indicator  fingertips.Indicator `json:"indicator"`
	AreaType   string               `json:"areaType"`
	TimePeriod string               `json:"timePeriod"`
	Count      int                  `json:"count"`
	Data       []fingertips.DataRow `json:"data"`
}

// FetchData returns observation rows for one indicator, filtered to the given
// period ("" means latest).
func (c *DataClient) FetchData(ctx context.Context, indicatorID int, timePeriod string) (*DataResult, error) {
	params := url.Values{}
	params.Set("indicator_id", strconv.Itoa(indicatorID))
	if timePeriod != "" {
		params.Set("time_period", timePeriod)
	}
	var resp DataResult
	if err := c.getJSON(ctx, "/data", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimePeriods returns the available periods for an indicator, newest first.
func (c *DataClient) TimePeriods(ctx context.Context, indicatorID int) ([]string, error) {
	params := url.Values{}
	params.Set("indicator_id", strconv.Itoa(indicatorID))
	var resp struct {
		TimePeriods []string `json:"timePeriods"`
	}
	if err := c.getJSON(ctx, "/time-periods", params, &resp); err != nil {
		return nil, err
	}
	return resp.TimePeriods, nil
}

func (c *DataClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
