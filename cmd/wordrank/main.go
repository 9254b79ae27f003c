// Copyright 2025 The WordRank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word store server and CLI [DBG] application.

Note: this is a beta release; flags and wire fields may still change.

WordRank keeps a frequency-ranked prefix trie of every word it has seen and
answers four questions about it: is this exact word stored, what words are
stored (alphabetically), which k words occur most, and what is the most
frequent continuation of this prefix. It can operate as a MessagePack IPC
server for integration with text editors, or as a CLI application for
testing and debugging.

Frequencies come from insertion: feeding a corpus through the tokenizer
records one occurrence per appearance, so a word inserted seven times beats
a word inserted three. Repeated-tie ranking is deliberate and asymmetric:
single-shot autocomplete prefers the most recently inserted among equals,
while the top-k listing prefers the alphabetically smallest.

# Usage

Serve a local corpus over IPC:

	wordrank -text hamlet.txt

Fetch a corpus over HTTP and run the interactive CLI in debug mode:

	wordrank -url https://example.com/corpus.txt -c -d

Start with an empty store and feed it over the wire:

	wordrank

# Configuration

A TOML file carries the runtime settings: server bounds, the corpus
source, and CLI defaults:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true
	min_frequency = 1
	hot_cache_entries = 512

	[corpus]
	file = ""
	url = ""
	max_words = 1000000

A missing config file is created with defaults on first run.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with microsecond timing information included in
responses.

A completion request:

	{"id": "req1", "op": "complete", "p": "ros", "l": 20}

and its frequency-ranked reply:

	{"id": "req1", "s": [{"w": "rosebud", "r": 1, "f": 3}, {"w": "rosemary", "r": 2, "f": 1}], "c": 2, "t": 145}

The other ops cover the rest of the store: "best" for single-shot
autocomplete, "lookup" for exact membership, "add" to record an occurrence,
"top" for the k most common words, "list" for the alphabetical listing,
"stats" for counters and "ping" for liveness.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging. A
typed prefix prints the best continuation and the ranked suggestion list;
!-commands (!lookup, !add, !top, !list, !stats) exercise the remaining
operations with human-readable output.

	handler := cli.NewInputHandler(completer, minLen, maxLen, limit, noFilter, showCounts)
	handler.Start()

# Command Line Flags

Every runtime knob has a flag:

	-text string
	    Path to a corpus text file to load at startup
	-url string
	    HTTP URL of a corpus to fetch at startup
	-d  Verbose debug logging
	-c  Interactive CLI instead of the IPC server
	-limit int
	    How many suggestions to return (default from config)
	-prmin int
	    Shortest prefix the CLI will complete
	-prmax int
	    Longest prefix the CLI will complete
	-no-filter
	    Accept raw tokens (numbers, symbols) without filtering
	-min-freq int
	    Hide words below this frequency from completion listings
	-words int
	    Maximum corpus words to load (0 for all)
	-config string
	    Path to a TOML config file
	-pprof
	    Write a CPU profile to the working directory

Corpus sources resolve in order: -text, -url, then the [corpus] config
section. With no source the store starts empty and learns from "add"
requests.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Joshtray/wordrank/internal/cli"
	"github.com/Joshtray/wordrank/internal/logger"
	"github.com/Joshtray/wordrank/internal/utils"
	"github.com/Joshtray/wordrank/pkg/config"
	"github.com/Joshtray/wordrank/pkg/corpus"
	"github.com/Joshtray/wordrank/pkg/server"
	"github.com/Joshtray/wordrank/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordrank"
	gh      = "https://github.com/Joshtray/wordrank"
)

const fetchTimeout = 60 * time.Second

// sigHandler exits cleanly on SIGINT and SIGTERM.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "\nshutting down")
		os.Exit(0)
	}()
}

// main wires flags, config, and the corpus into one of the two front
// ends. The logic lives in the packages, the flow lives here.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Print version and exit")
	textPath := flag.String("text", "", "Path to a corpus text file to load at startup")
	corpusURL := flag.String("url", "", "HTTP URL of a corpus to fetch at startup")
	debugMode := flag.Bool("d", false, "Verbose debug logging")
	cliMode := flag.Bool("c", false, "Interactive CLI instead of the IPC server")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "How many suggestions to return")
	minPrefix := flag.Int("prmin", defaults.Server.MinPrefix, "Shortest prefix to complete (1 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaults.Server.MaxPrefix, "Longest prefix to complete")
	noFilter := flag.Bool("no-filter", false, "Accept raw tokens (numbers, symbols) without filtering [DBG]")
	minFreq := flag.Int("min-freq", defaults.Server.MinFrequency, "Hide words below this frequency from completion listings")
	wordCap := flag.Int("words", defaults.Corpus.MaxWords, "Maximum number of corpus words to load (use 0 for all words)")
	configPath := flag.String("config", "", "Path to a TOML config file")
	pprofMode := flag.Bool("pprof", false, "Write a CPU profile to the working directory")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *pprofMode {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-filter":
			appConfig.Server.EnableFilter = !*noFilter
		case "min-freq":
			appConfig.Server.MinFrequency = *minFreq
		case "words":
			appConfig.Corpus.MaxWords = *wordCap
		case "text":
			appConfig.Corpus.File = *textPath
			appConfig.Corpus.URL = ""
		case "url":
			appConfig.Corpus.URL = *corpusURL
			if *textPath == "" {
				appConfig.Corpus.File = ""
			}
		}
	})

	completer := suggest.NewCompleterWithCache(appConfig.Server.HotCacheEntries)
	completer.SetMinFrequency(appConfig.Server.MinFrequency)

	if err := loadCorpus(completer, appConfig); err != nil {
		log.Fatalf("Loading corpus: %v", err)
	}

	// The CLI front end is for poking at the store by hand. Editors
	// integrate with the server path below.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("cli bounds:",
			"prmin", *minPrefix,
			"prmax", *maxPrefix,
			"limit", *limit,
			"noFilter", !appConfig.Server.EnableFilter)

		handler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit,
			!appConfig.Server.EnableFilter, appConfig.CLI.ShowCounts)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI session: %v", err)
		}
		return
	}

	log.Debug("starting IPC loop")
	srv := server.NewServer(completer, appConfig)

	showStartupInfo(completer, appConfig)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server terminated: %v", err)
	}
}

// loadCorpus seeds the completer from the configured source, preferring a
// local file over a URL. No source means an empty store, which is fine.
func loadCorpus(completer *suggest.Completer, cfg *config.Config) error {
	var words []string
	var err error

	switch {
	case cfg.Corpus.File != "":
		log.Debugf("Loading corpus from file: %s", cfg.Corpus.File)
		words, err = corpus.FromFile(cfg.Corpus.File)
	case cfg.Corpus.URL != "":
		log.Debugf("Fetching corpus from URL: %s", cfg.Corpus.URL)
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		words, err = corpus.FromURL(ctx, cfg.Corpus.URL)
	default:
		log.Warn("No corpus source specified, starting with an empty store...")
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.Corpus.MaxWords > 0 && len(words) > cfg.Corpus.MaxWords {
		log.Debugf("Capping corpus at %d of %d words", cfg.Corpus.MaxWords, len(words))
		words = words[:cfg.Corpus.MaxWords]
	}

	completer.AddWords(words)
	log.Infof("Loaded %s corpus words (%s distinct)",
		utils.FormatWithCommas(len(words)),
		utils.FormatWithCommas(completer.Stats()["distinctWords"]))
	return nil
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordRank ] Frequency-ranked word completions!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints the banner and an info-level summary, then puts
// the log level back.
func showStartupInfo(completer *suggest.Completer, cfg *config.Config) {
	level := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" WordRank ")
	println("==========")
	log.Infof("version: %s", Version)
	log.Infof("pid: [ %d ]", os.Getpid())
	log.Info("init: OK")
	stats := completer.Stats()
	log.Infof("words: %s distinct / %s inserts",
		utils.FormatWithCommas(stats["distinctWords"]),
		utils.FormatWithCommas(stats["totalInserts"]))
	log.Infof("filter: %v, min freq: %d", cfg.Server.EnableFilter, cfg.Server.MinFrequency)
	log.Info("status: ready")
	println("==========")
	println("Ctrl+C to exit")

	log.SetLevel(level)
}
