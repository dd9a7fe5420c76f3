package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/weldfolio/weldsite/internal/clipboard"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	initLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		clipboard: clipboard.SystemClipboard{},
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = c.serve(ctx, os.Args[2:])
	case "index":
		err = c.index(os.Args[2:])
	case "search":
		err = c.search(ctx, os.Args[2:])
	case "copy":
		err = c.copy(os.Args[2:])
	case "tree":
		err = c.tree(os.Args[2:])
	case "publish":
		err = c.publish(ctx, os.Args[2:])
	case "htaccess":
		err = c.htaccess(os.Args[2:])
	case "version":
		err = c.version(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "weldsite: %v\n", err)
		os.Exit(1)
	}
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WELDSITE_LOG_LEVEL"))) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(newLogHandler(os.Stderr, os.Getenv("WELDSITE_LOG_FORMAT"), level)))
}

func newLogHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func usage() {
	fmt.Fprintf(os.Stderr, `weldsite - welding portfolio site server and tooling

Usage:
  weldsite <command> [flags]

Commands:
  serve     Serve the site with HTTPS redirect, 404 handling and the search API
  index     Build the search catalog (search.json) from the site's pages
  search    Filter the search catalog from the terminal
  copy      Copy a page's code block to the system clipboard
  tree      Create the bilingual site directory tree
  publish   Commit and push the site (main or gh-pages mode)
  htaccess  Print the redirect and error rules as an Apache .htaccess file
  version   Print the version
  help      Show this help

Environment:
  WELDSITE_CONFIG      config file (default weldsite.yaml)
  WELDSITE_LOG_LEVEL   debug|info|warn|error
  WELDSITE_LOG_FORMAT  text|json
`)
}
