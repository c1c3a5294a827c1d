// ABOUTME: Base-URL resolution for the dashboard client: explicit value wins,
// ABOUTME: then environment override, then the compiled-in default.
package client

import "os"

// Compiled-in defaults, overridable per resolution order below.
const (
	DefaultAIBaseURL   = "http://127.0.0.1:8110"
	DefaultDataBaseURL = "http://127.0.0.1:8110"

	// Environment overrides checked when no explicit value is given.
	EnvAIBaseURL   = "FINGERTIPS_AI_URL"
	EnvDataBaseURL = "FINGERTIPS_DATA_URL"
)

// ResolveAIBaseURL returns the AI relay base URL: the explicit value if set,
// else the FINGERTIPS_AI_URL environment variable, else the default.
func ResolveAIBaseURL(explicit string) string {
	return resolve(explicit, EnvAIBaseURL, DefaultAIBaseURL)
}

// ResolveDataBaseURL returns the data API base URL with the same precedence.
func ResolveDataBaseURL(explicit string) string {
	return resolve(explicit, EnvDataBaseURL, DefaultDataBaseURL)
}

func resolve(explicit, envKey, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}
