// ABOUTME: CLI entrypoint for the diabetes care dashboard with server and TUI modes.
// ABOUTME: Wires together the model client, the cached data source, the relay server, and the terminal UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips/store"
	"github.com/SulemanSupreme/fingertips/llm"
	"github.com/SulemanSupreme/fingertips/tui"
	"github.com/SulemanSupreme/fingertips/web"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and the config file.
type config struct {
	serverMode  bool
	tuiMode     bool
	addr        string
	port        int
	model       string
	aiURL       string
	dataURL     string
	upstreamURL string
	cachePath   string
	configPath  string
	showVersion bool

	configPathSet bool
}

func main() {
	loadDotEnv(".env")

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("fingertips %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags into a config.
func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("fingertips", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start the dashboard HTTP server")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Run the interactive terminal dashboard")
	fs.StringVar(&cfg.addr, "addr", "", "Server listen host (default: 127.0.0.1)")
	fs.IntVar(&cfg.port, "port", 0, "Server port (default: 8110)")
	fs.StringVar(&cfg.model, "model", "", "Model identifier for the AI provider")
	fs.StringVar(&cfg.aiURL, "ai-url", "", "AI relay base URL for the TUI")
	fs.StringVar(&cfg.dataURL, "data-url", "", "Data API base URL for the TUI")
	fs.StringVar(&cfg.upstreamURL, "upstream-url", "", "Fingertips API base URL for the server")
	fs.StringVar(&cfg.cachePath, "cache", "", "SQLite cache path (default: fingertips-cache.db)")
	fs.StringVar(&cfg.configPath, "config", "", "YAML config file (default: fingertips.yaml if present)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		return cfg, err
	}

	cfg.configPathSet = cfg.configPath != ""
	if cfg.configPath == "" {
		cfg.configPath = "fingertips.yaml"
	}
	return cfg, nil
}

// run dispatches to the selected mode. Returns the process exit code.
func run(cfg config) int {
	file, err := loadConfigFile(cfg.configPath, cfg.configPathSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cfg.merge(file)

	if cfg.addr == "" {
		cfg.addr = "127.0.0.1"
	}
	if cfg.port == 0 {
		cfg.port = 8110
	}
	if cfg.cachePath == "" {
		cfg.cachePath = "fingertips-cache.db"
	}

	switch {
	case cfg.serverMode:
		return runServer(cfg)
	case cfg.tuiMode:
		return runTUI(cfg)
	default:
		printHelp(os.Stderr, version)
		return 0
	}
}

// runServer starts the relay and data server, blocking until it exits.
func runServer(cfg config) int {
	var modelClient llm.Client
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c, err := llm.NewOpenAIClient(apiKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer c.Close()
		modelClient = c
	} else {
		log.Printf("OPENAI_API_KEY not set, analysis endpoints will degrade")
	}

	cache, err := store.Open(cfg.cachePath, store.NewUpstreamClient(cfg.upstreamURL))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening cache: %v\n", err)
		return 1
	}
	defer cache.Close()

	addr := net.JoinHostPort(cfg.addr, strconv.Itoa(cfg.port))
	server := web.NewServer(web.ServerConfig{
		Addr:  addr,
		LLM:   modelClient,
		Model: cfg.model,
		Data:  cache,
	})

	log.Printf("dashboard server listening addr=%s hasApiKey=%t cache=%s", addr, modelClient != nil, cfg.cachePath)
	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "error: server: %v\n", err)
		return 1
	}
	return 0
}

// runTUI starts the terminal dashboard against a running server.
func runTUI(cfg config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataClient := client.NewDataClient(cfg.dataURL)
	stream := client.NewAnalysisStream(cfg.aiURL)
	suggester := client.NewSuggestionFetcher(cfg.aiURL)

	if err := tui.Run(ctx, dataClient, stream, suggester); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
