// ABOUTME: Wire and domain types shared by the relay server, data endpoints, and the analysis client.
// ABOUTME: DataRow values are pointers so missing observations survive JSON round-trips as null.

package fingertips

// DataRow is one area's observation for an indicator. Value is nil when the
// source has no observation for the area; statistics must exclude such rows.
type DataRow struct {
	AreaCode    string   `json:"areaCode,omitempty"`
	AreaName    string   `json:"areaName"`
	Value       *float64 `json:"value"`
	Count       *int     `json:"count"`
	Denominator *int     `json:"denominator"`
}

// AnalysisRequest is the body of POST /analyze. Constructed once per user
// submission and treated as immutable.
type AnalysisRequest struct {
	IndicatorID int       `json:"indicatorId"`
	TimePeriod  string    `json:"timePeriod,omitempty"`
	Query       string    `json:"query"`
	Data        []DataRow `json:"data"`
}

// SuggestRequest is the body of POST /suggest.
type SuggestRequest struct {
	IndicatorID int    `json:"indicatorId"`
	TimePeriod  string `json:"timePeriod,omitempty"`
	DataSummary string `json:"dataSummary,omitempty"`
}

// SuggestionSet is an ordered set of follow-up questions, replaced wholesale
// on each new indicator selection.
type SuggestionSet struct {
	Suggestions []string `json:"suggestions"`
}
