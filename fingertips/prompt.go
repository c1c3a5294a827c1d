// ABOUTME: Builds the system prompts sent to the model provider for analysis and suggestions.
// ABOUTME: The analysis prompt embeds indicator metadata, the time period, and a derived data summary.

package fingertips

import (
	"fmt"
	"strings"
)

// AnalysisSystemPrompt builds the system prompt for POST /analyze. The data
// digest covers the top and bottom five areas plus min/mean/max computed over
// non-null values only; an empty period reads as "latest".
func AnalysisSystemPrompt(ind Indicator, timePeriod string, rows []DataRow) string {
	if timePeriod == "" {
		timePeriod = "latest"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a health data analyst for NHS England diabetes care data.\n\n")
	fmt.Fprintf(&b, "Indicator: %s\n", ind.Name)
	fmt.Fprintf(&b, "Description: %s\n", ind.Description)
	fmt.Fprintf(&b, "Time period: %s\n", timePeriod)

	summary, err := Summarize(rows, 5)
	if err != nil {
		b.WriteString("\nNo area-level data is available for this selection.\n")
	} else {
		fmt.Fprintf(&b, "\nData summary across %d areas: min %.2f, mean %.2f, max %.2f.\n",
			summary.Count, summary.Min, summary.Mean, summary.Max)

		b.WriteString("\nTop performing areas:\n")
		writeRows(&b, summary.Top)
		b.WriteString("\nLowest performing areas:\n")
		writeRows(&b, summary.Bottom)
	}

	b.WriteString("\nAnswer the user's question about this data concisely, in markdown. " +
		"Refer to areas by name and cite values from the data provided. " +
		"Do not invent figures that are not in the summary.")
	return b.String()
}

// SuggestionPrompt builds the one-shot prompt for POST /suggest, constrained
// to a bare JSON array of exactly three short questions.
func SuggestionPrompt(ind Indicator, timePeriod, dataSummary string) string {
	if timePeriod == "" {
		timePeriod = "latest"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest three short follow-up questions a user might ask about the indicator %q (%s) for the %s period.\n",
		ind.Name, ind.Description, timePeriod)
	if dataSummary != "" {
		fmt.Fprintf(&b, "Context: %s\n", dataSummary)
	}
	b.WriteString("Respond with ONLY a JSON array of exactly three strings, no prose, no code fences.")
	return b.String()
}

// FallbackSuggestions are the deterministic questions used whenever the model
// response cannot be parsed. They must never surface as an error.
func FallbackSuggestions(ind Indicator) []string {
	return []string{
		fmt.Sprintf("Which areas have the lowest values for %s?", ind.Name),
		fmt.Sprintf("How does %s compare to the national average?", ind.Name),
		fmt.Sprintf("What might explain regional variation in %s?", ind.Name),
	}
}

func writeRows(b *strings.Builder, rows []DataRow) {
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		fmt.Fprintf(b, "- %s: %.2f", row.AreaName, *row.Value)
		if row.Denominator != nil {
			fmt.Fprintf(b, " (%d patients)", *row.Denominator)
		}
		b.WriteString("\n")
	}
}
