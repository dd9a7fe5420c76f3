package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/weldfolio/weldsite/internal/clipboard"
	"github.com/weldfolio/weldsite/internal/config"
	"github.com/weldfolio/weldsite/internal/indexer"
	"github.com/weldfolio/weldsite/internal/publish"
	"github.com/weldfolio/weldsite/internal/rules"
	"github.com/weldfolio/weldsite/internal/search"
	"github.com/weldfolio/weldsite/internal/server"
	"github.com/weldfolio/weldsite/internal/sitetree"
	"github.com/weldfolio/weldsite/internal/version"
)

type cli struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	clipboard clipboard.Writer
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parse treats -h as success so "weldsite <cmd> -h" exits cleanly.
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	if fs.NArg() > 0 {
		return false, fmt.Errorf("%s: unexpected arguments: %s", fs.Name(), strings.Join(fs.Args(), " "))
	}
	return true, nil
}

func loadConfig(path string) (config.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("WELDSITE_CONFIG"))
	}
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadOptional(path)
	if err != nil {
		return config.File{}, err
	}
	return config.ApplyEnv(cfg)
}

func (c *cli) serve(ctx context.Context, args []string) error {
	fs := c.flagSet("serve")
	configPath := fs.String("config", "", "config file (default $WELDSITE_CONFIG or weldsite.yaml)")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	root := fs.String("root", "", "site root, overrides site.root")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.Server.Addr = *addr
	}
	if strings.TrimSpace(*root) != "" {
		cfg.Site.Root = *root
	}
	return server.Run(ctx, cfg)
}

func (c *cli) index(args []string) error {
	fs := c.flagSet("index")
	configPath := fs.String("config", "", "config file")
	root := fs.String("root", "", "site root to scan, overrides site.root")
	out := fs.String("out", "", "catalog file to write (default <root><catalog_path>)")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*root) != "" {
		cfg.Site.Root = *root
	}
	dst := strings.TrimSpace(*out)
	if dst == "" {
		dst = filepath.Join(cfg.Site.Root, filepath.FromSlash(strings.TrimPrefix(cfg.Site.CatalogPath, "/")))
	}

	entries, err := indexer.Build(cfg.Site.Root)
	if err != nil {
		return fmt.Errorf("index %s: %w", cfg.Site.Root, err)
	}
	if err := indexer.WriteFile(dst, entries); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "indexed %d pages into %s\n", len(entries), dst)
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := c.flagSet("search")
	configPath := fs.String("config", "", "config file")
	catalog := fs.String("catalog", "", "catalog URL or file (default <site.root><catalog_path>)")
	query := fs.String("query", "", "run a single query and exit")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	src := strings.TrimSpace(*catalog)
	if src == "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		src = filepath.Join(cfg.Site.Root, filepath.FromSlash(strings.TrimPrefix(cfg.Site.CatalogPath, "/")))
	}
	client, catalogURL, err := catalogSource(src)
	if err != nil {
		return err
	}
	w := search.NewWidget(client, catalogURL, nil)

	if isFlagSet(fs, "query") {
		if err := w.Load(ctx); err != nil {
			return err
		}
		printResults(c.stdout, w.SetQuery(*query))
		return nil
	}

	go func() {
		_ = w.Load(ctx)
	}()
	scanner := bufio.NewScanner(c.stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		results := w.SetQuery(scanner.Text())
		switch w.State() {
		case search.StateIdle, search.StateLoading:
			fmt.Fprintln(c.stdout, "(catalog still loading)")
		case search.StateLoadFailed:
			fmt.Fprintln(c.stdout, "(catalog unavailable)")
		}
		printResults(c.stdout, results)
	}
	return scanner.Err()
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// catalogSource returns a client and URL for an http(s) catalog URL or a local
// catalog file.
func catalogSource(src string) (*http.Client, string, error) {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return &http.Client{Timeout: 30 * time.Second}, src, nil
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, "", fmt.Errorf("resolve catalog path: %w", err)
	}
	client := &http.Client{Transport: http.NewFileTransport(http.Dir(filepath.Dir(abs)))}
	u := url.URL{Scheme: "file", Path: "/" + filepath.Base(abs)}
	return client, u.String(), nil
}

func printResults(w io.Writer, results []search.Entry) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for _, e := range results {
		fmt.Fprintln(w, e.Title)
		if e.Description != "" {
			fmt.Fprintf(w, "  %s\n", e.Description)
		}
		if e.URL != "" {
			fmt.Fprintf(w, "  %s\n", e.URL)
		}
	}
}

func (c *cli) copy(args []string) error {
	fs := c.flagSet("copy")
	page := fs.String("page", "", "HTML page holding the code block")
	id := fs.String("id", clipboard.DefaultSourceID, "id of the element to copy")
	confirm := fs.Bool("confirm", false, "wait for Enter after the message")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if strings.TrimSpace(*page) == "" {
		return fmt.Errorf("copy requires --page")
	}
	f, err := os.Open(*page)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	text, err := clipboard.SourceText(f, *id)
	if err != nil {
		return err
	}

	notifier := clipboard.TerminalNotifier{Out: c.stdout}
	if *confirm {
		notifier.In = c.stdin
	}
	w := &clipboard.Widget{Clipboard: c.clipboard, Notifier: notifier}
	return w.Activate(text)
}

func (c *cli) tree(args []string) error {
	fs := c.flagSet("tree")
	base := fs.String("base", ".", "directory to create the site tree in")
	noGitkeep := fs.Bool("no-gitkeep", false, "do not write .gitkeep files")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	results, err := sitetree.Ensure(*base, !*noGitkeep)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(c.stdout, "%s: %d directories ensured\n", r.Lang, r.Ensured)
	}
	return nil
}

func (c *cli) publish(ctx context.Context, args []string) error {
	fs := c.flagSet("publish")
	mode := fs.String("mode", string(publish.ModeMain), "main or gh-pages")
	repo := fs.String("repo", ".", "repository to publish from")
	commit := fs.String("commit", "", "commit message (default \"Site update <timestamp>\")")
	buildCmd := fs.String("build-cmd", "", "command run before publishing")
	buildDir := fs.String("build-dir", "", "build output to publish in gh-pages mode")
	branch := fs.String("branch", publish.DefaultBranch, "publish branch in gh-pages mode")
	keepFiles := fs.Bool("keep-files", false, "keep existing files on the publish branch")
	cname := fs.String("cname", "", "custom domain written to CNAME")
	remote := fs.String("remote", publish.DefaultRemote, "remote to push to")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	p := &publish.Publisher{Out: c.stdout}
	return p.Run(ctx, publish.Options{
		Mode:      publish.Mode(*mode),
		Repo:      *repo,
		Commit:    *commit,
		BuildCmd:  *buildCmd,
		BuildDir:  *buildDir,
		Branch:    *branch,
		KeepFiles: *keepFiles,
		CNAME:     *cname,
		Remote:    *remote,
	})
}

func (c *cli) htaccess(args []string) error {
	fs := c.flagSet("htaccess")
	configPath := fs.String("config", "", "config file")
	out := fs.String("out", "", "file to write (default stdout)")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	rl := rules.Rules{ForceHTTPS: cfg.Server.ForceHTTPS, NotFoundURL: cfg.Server.NotFoundURL}
	if strings.TrimSpace(*out) == "" {
		return rl.WriteHTAccess(c.stdout)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	if err := rl.WriteHTAccess(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", *out, err)
	}
	return f.Close()
}

func (c *cli) version(args []string) error {
	fs := c.flagSet("version")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	fmt.Fprintln(c.stdout, version.Current())
	return nil
}
