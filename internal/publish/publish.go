// Package publish pushes the site to GitHub Pages, either by committing the
// current branch or by publishing a build directory to a gh-pages branch.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Mode string

const (
	ModeMain    Mode = "main"
	ModeGHPages Mode = "gh-pages"

	DefaultBranch = "gh-pages"
	DefaultRemote = "origin"
)

type Options struct {
	Mode      Mode
	Repo      string
	Commit    string
	BuildCmd  string
	BuildDir  string
	Branch    string
	KeepFiles bool
	CNAME     string
	Remote    string
}

type Publisher struct {
	Out io.Writer
	Now func() time.Time
}

func (o Options) withDefaults(now time.Time) Options {
	if strings.TrimSpace(o.Repo) == "" {
		o.Repo = "."
	}
	if strings.TrimSpace(o.Commit) == "" {
		o.Commit = "Site update " + now.Format("2006-01-02 15:04:05")
	}
	if strings.TrimSpace(o.Branch) == "" {
		o.Branch = DefaultBranch
	}
	if strings.TrimSpace(o.Remote) == "" {
		o.Remote = DefaultRemote
	}
	return o
}

func (p *Publisher) Run(ctx context.Context, opts Options) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	opts = opts.withDefaults(now())

	repo, err := filepath.Abs(opts.Repo)
	if err != nil {
		return fmt.Errorf("resolve repo path: %w", err)
	}
	opts.Repo = repo
	if strings.TrimSpace(opts.BuildDir) != "" && !filepath.IsAbs(opts.BuildDir) {
		opts.BuildDir = filepath.Join(repo, opts.BuildDir)
	}

	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required to publish: %w", err)
	}
	if _, err := os.Stat(filepath.Join(repo, ".git")); err != nil {
		return fmt.Errorf("not a git repository: %s", repo)
	}
	p.gitOut(ctx, repo, "status", "--short")

	switch opts.Mode {
	case ModeMain:
		return p.publishMain(ctx, opts)
	case ModeGHPages:
		return p.publishGHPages(ctx, opts)
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", opts.Mode, ModeMain, ModeGHPages)
	}
}

func (p *Publisher) publishMain(ctx context.Context, opts Options) error {
	p.printf("== MODE: main ==\n")
	if err := p.requireRemote(ctx, opts.Repo, opts.Remote); err != nil {
		return err
	}
	if !p.userConfigured(ctx, opts.Repo) {
		p.printf("Warning: git user.name or user.email is not set for this repo.\n")
	}
	if err := p.runBuild(ctx, opts); err != nil {
		return err
	}

	p.printf("Staging changes...\n")
	if _, err := p.git(ctx, opts.Repo, "add", "-A"); err != nil {
		return err
	}
	staged, err := p.hasStagedChanges(ctx, opts.Repo)
	if err != nil {
		return err
	}
	if staged {
		if _, err := p.git(ctx, opts.Repo, "commit", "-m", opts.Commit); err != nil {
			return err
		}
	} else {
		p.printf("No staged changes detected; skipping commit.\n")
	}

	branch, err := p.git(ctx, opts.Repo, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return fmt.Errorf("determine current branch: %w", err)
	}
	branch = strings.TrimSpace(branch)
	p.printf("Pushing to %s %s...\n", opts.Remote, branch)
	if _, err := p.git(ctx, opts.Repo, "push", opts.Remote, branch); err != nil {
		return err
	}
	p.printf("Done. GitHub Pages rebuilds automatically when this branch is the Pages source.\n")
	return nil
}

func (p *Publisher) publishGHPages(ctx context.Context, opts Options) error {
	p.printf("== MODE: gh-pages ==\n")
	if err := p.requireRemote(ctx, opts.Repo, opts.Remote); err != nil {
		return err
	}
	if strings.TrimSpace(opts.BuildDir) == "" {
		return errors.New("--build-dir is required in gh-pages mode (e.g. dist, _site)")
	}
	if err := p.runBuild(ctx, opts); err != nil {
		return err
	}
	if empty, err := dirEmpty(opts.BuildDir); err != nil || empty {
		return fmt.Errorf("build dir not found or empty: %s", opts.BuildDir)
	}

	worktree, err := os.MkdirTemp("", "publish-gh-pages-")
	if err != nil {
		return fmt.Errorf("create temporary worktree dir: %w", err)
	}
	p.printf("Using temporary worktree: %s\n", worktree)
	defer func() {
		p.printf("Cleaning up worktree...\n")
		if _, err := p.git(context.WithoutCancel(ctx), opts.Repo, "worktree", "remove", "--force", worktree); err != nil {
			p.printf("Note: failed to remove worktree %s: %v\n", worktree, err)
		}
		_ = os.RemoveAll(worktree)
		p.gitOut(context.WithoutCancel(ctx), opts.Repo, "worktree", "prune")
	}()

	p.gitOut(ctx, opts.Repo, "fetch", opts.Remote)
	if _, err := p.git(ctx, opts.Repo, "worktree", "add", "--checkout", worktree, opts.Branch); err != nil {
		p.printf("Branch %q not found. Creating orphan branch...\n", opts.Branch)
		if err := p.createOrphan(ctx, opts, worktree); err != nil {
			return err
		}
	}

	if !opts.KeepFiles {
		p.printf("Wiping target branch contents...\n")
		if err := wipe(worktree); err != nil {
			return err
		}
	}

	p.printf("Copying build output from %s -> %s\n", opts.BuildDir, worktree)
	if err := copyTree(opts.BuildDir, worktree); err != nil {
		return err
	}
	if cname := strings.TrimSpace(opts.CNAME); cname != "" {
		if err := os.WriteFile(filepath.Join(worktree, "CNAME"), []byte(cname+"\n"), 0o644); err != nil {
			return fmt.Errorf("write CNAME: %w", err)
		}
		p.printf("Wrote CNAME with domain: %s\n", cname)
	}

	if _, err := p.git(ctx, worktree, "add", "-A"); err != nil {
		return err
	}
	staged, err := p.hasStagedChanges(ctx, worktree)
	if err != nil {
		return err
	}
	if !staged {
		p.printf("No changes to publish.\n")
		return nil
	}
	if _, err := p.git(ctx, worktree, "commit", "-m", opts.Commit); err != nil {
		return err
	}
	if _, err := p.git(ctx, worktree, "push", opts.Remote, opts.Branch); err != nil {
		return err
	}
	p.printf("Publish complete.\n")
	return nil
}

func (p *Publisher) createOrphan(ctx context.Context, opts Options, worktree string) error {
	if _, err := p.git(ctx, opts.Repo, "worktree", "add", "--detach", "--no-checkout", worktree); err != nil {
		return fmt.Errorf("add detached worktree: %w", err)
	}
	if _, err := p.git(ctx, worktree, "checkout", "--orphan", opts.Branch); err != nil {
		return err
	}
	p.gitOut(ctx, worktree, "rm", "-rf", "--cached", "--quiet", "--ignore-unmatch", ".")
	if err := wipe(worktree); err != nil {
		return err
	}
	if _, err := p.git(ctx, worktree, "commit", "--allow-empty", "-m", "Initialize "+opts.Branch+" branch"); err != nil {
		return err
	}
	if _, err := p.git(ctx, worktree, "push", "-u", opts.Remote, opts.Branch); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) runBuild(ctx context.Context, opts Options) error {
	if strings.TrimSpace(opts.BuildCmd) == "" {
		return nil
	}
	p.printf("Running build command...\n")
	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	p.printf("\n$ %s\n", opts.BuildCmd)
	out, err := runCommandCapture(ctx, opts.Repo, shell, flag, opts.BuildCmd)
	p.printf("%s", out)
	if err != nil {
		return fmt.Errorf("build command failed: %w", err)
	}
	return nil
}

func (p *Publisher) requireRemote(ctx context.Context, repo, remote string) error {
	out, err := p.git(ctx, repo, "remote")
	if err == nil {
		for _, r := range strings.Fields(out) {
			if r == remote {
				return nil
			}
		}
	}
	return fmt.Errorf("remote %q not configured; add it with: git remote add %s <url>", remote, remote)
}

func (p *Publisher) userConfigured(ctx context.Context, repo string) bool {
	name, _ := runCommandCapture(ctx, repo, "git", "config", "user.name")
	email, _ := runCommandCapture(ctx, repo, "git", "config", "user.email")
	return strings.TrimSpace(name) != "" && strings.TrimSpace(email) != ""
}

func (p *Publisher) hasStagedChanges(ctx context.Context, dir string) (bool, error) {
	_, err := runCommandCapture(ctx, dir, "git", "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff --cached: %w", err)
}

// git runs a git command in dir, echoing it and its output.
func (p *Publisher) git(ctx context.Context, dir string, args ...string) (string, error) {
	p.printf("\n$ git %s\n", strings.Join(args, " "))
	out, err := runCommandCapture(ctx, dir, "git", args...)
	p.printf("%s", out)
	if err != nil {
		return out, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// gitOut runs a best-effort git command whose failure is not fatal.
func (p *Publisher) gitOut(ctx context.Context, dir string, args ...string) {
	_, _ = p.git(ctx, dir, args...)
}

func (p *Publisher) printf(format string, args ...any) {
	if p.Out == nil {
		return
	}
	fmt.Fprintf(p.Out, format, args...)
}

func runCommandCapture(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}
