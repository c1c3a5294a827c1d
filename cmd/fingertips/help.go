// ABOUTME: Help display for the fingertips CLI with grouped flags and examples.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "fingertips %s — NHS diabetes care dashboard\n", ver)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fingertips -server [flags]     Start the relay + data HTTP server")
	fmt.Fprintln(w, "  fingertips -tui [flags]        Open the terminal dashboard")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server flags:")
	fmt.Fprintln(w, "  -addr HOST          Listen host (default 127.0.0.1)")
	fmt.Fprintln(w, "  -port N             Listen port (default 8110)")
	fmt.Fprintln(w, "  -model NAME         Model identifier for the AI provider")
	fmt.Fprintln(w, "  -upstream-url URL   Fingertips API base URL")
	fmt.Fprintln(w, "  -cache PATH         SQLite cache path (default fingertips-cache.db)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TUI flags:")
	fmt.Fprintln(w, "  -ai-url URL         AI relay base URL")
	fmt.Fprintln(w, "  -data-url URL       Data API base URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -config PATH        YAML config file (default fingertips.yaml if present)")
	fmt.Fprintln(w, "  -version            Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  OPENAI_API_KEY      %s\n", envStatus("OPENAI_API_KEY"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  fingertips -server -port 8110")
	fmt.Fprintln(w, "  fingertips -tui -ai-url http://127.0.0.1:8110")
}

// envStatus reports whether an environment variable is set.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "set"
	}
	return "not set"
}
