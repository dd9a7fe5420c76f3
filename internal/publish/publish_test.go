package publish

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/weldfolio/weldsite/internal/testutil"
)

func TestMain(m *testing.M) {
	restore := testutil.SetGitEnvHardening()
	code := m.Run()
	restore()
	os.Exit(code)
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newRepoWithRemote returns a working repo on branch main with a bare origin.
func newRepoWithRemote(t *testing.T) (repo, remote string) {
	t.Helper()
	requireGit(t)
	root := t.TempDir()
	remote = filepath.Join(root, "remote.git")
	repo = filepath.Join(root, "repo")
	mustGit(t, root, "init", "--bare", remote)
	mustGit(t, root, "init", repo)
	mustGit(t, repo, "symbolic-ref", "HEAD", "refs/heads/main")
	mustGit(t, repo, "remote", "add", "origin", remote)
	return repo, remote
}

func remoteFiles(t *testing.T, remote, branch string) []string {
	t.Helper()
	out := mustGit(t, remote, "ls-tree", "-r", "--name-only", branch)
	files := strings.Fields(out)
	sort.Strings(files)
	return files
}

func TestPublishMainCommitsAndPushes(t *testing.T) {
	repo, remote := newRepoWithRemote(t)
	writeFile(t, filepath.Join(repo, "index.html"), "<title>Weld notes</title>")

	var out bytes.Buffer
	p := &Publisher{Out: &out, Now: fixedNow}
	if err := p.Run(context.Background(), Options{Mode: ModeMain, Repo: repo}); err != nil {
		t.Fatalf("publish main: %v\n%s", err, out.String())
	}
	if got := mustGit(t, remote, "log", "-1", "--format=%s", "main"); got != "Site update 2026-10-17 09:30:00" {
		t.Fatalf("unexpected remote commit subject %q", got)
	}
	if files := remoteFiles(t, remote, "main"); len(files) != 1 || files[0] != "index.html" {
		t.Fatalf("unexpected remote files %v", files)
	}

	out.Reset()
	if err := p.Run(context.Background(), Options{Mode: ModeMain, Repo: repo, Commit: "noop"}); err != nil {
		t.Fatalf("second publish main: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "No staged changes detected; skipping commit.") {
		t.Fatalf("expected skip message, got:\n%s", out.String())
	}
	if got := mustGit(t, remote, "rev-list", "--count", "main"); got != "1" {
		t.Fatalf("expected a single commit on main, got %s", got)
	}
}

func TestPublishMainRunsBuildCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("build command uses sh")
	}
	repo, remote := newRepoWithRemote(t)

	p := &Publisher{Now: fixedNow}
	err := p.Run(context.Background(), Options{Mode: ModeMain, Repo: repo, BuildCmd: "echo built > generated.txt"})
	if err != nil {
		t.Fatalf("publish main with build: %v", err)
	}
	if files := remoteFiles(t, remote, "main"); len(files) != 1 || files[0] != "generated.txt" {
		t.Fatalf("expected build output to be committed, got %v", files)
	}

	err = p.Run(context.Background(), Options{Mode: ModeMain, Repo: repo, BuildCmd: "exit 3"})
	if err == nil || !strings.Contains(err.Error(), "build command failed") {
		t.Fatalf("expected build failure, got %v", err)
	}
}

func TestPublishGHPagesCreatesOrphanAndUpdates(t *testing.T) {
	repo, remote := newRepoWithRemote(t)
	writeFile(t, filepath.Join(repo, "README.md"), "sources")
	mustGit(t, repo, "add", "-A")
	mustGit(t, repo, "commit", "-m", "initial")

	dist := filepath.Join(repo, "dist")
	writeFile(t, filepath.Join(dist, "index.html"), "<title>Home</title>")
	writeFile(t, filepath.Join(dist, "guides", "tig", "index.html"), "<title>TIG</title>")

	var out bytes.Buffer
	p := &Publisher{Out: &out, Now: fixedNow}
	opts := Options{Mode: ModeGHPages, Repo: repo, BuildDir: "dist", CNAME: " weld.example.com ", Commit: "Publish site"}
	if err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("publish gh-pages: %v\n%s", err, out.String())
	}
	want := []string{"CNAME", "guides/tig/index.html", "index.html"}
	if got := remoteFiles(t, remote, "gh-pages"); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected gh-pages files %v want %v", got, want)
	}
	if got := mustGit(t, remote, "show", "gh-pages:CNAME"); got != "weld.example.com" {
		t.Fatalf("unexpected CNAME %q", got)
	}
	if got := mustGit(t, remote, "log", "-1", "--format=%s", "gh-pages"); got != "Publish site" {
		t.Fatalf("unexpected gh-pages head %q", got)
	}
	if wt := mustGit(t, repo, "worktree", "list"); strings.Count(wt, "\n") != 0 {
		t.Fatalf("expected temporary worktree to be removed, got:\n%s", wt)
	}

	if err := os.RemoveAll(filepath.Join(dist, "guides")); err != nil {
		t.Fatalf("remove guides: %v", err)
	}
	opts.CNAME = ""
	out.Reset()
	if err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("republish gh-pages: %v\n%s", err, out.String())
	}
	if got := remoteFiles(t, remote, "gh-pages"); strings.Join(got, ",") != "index.html" {
		t.Fatalf("expected wiped branch to contain only index.html, got %v", got)
	}

	out.Reset()
	if err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("noop republish: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "No changes to publish.") {
		t.Fatalf("expected no-change message, got:\n%s", out.String())
	}
}

func TestPublishGHPagesKeepFiles(t *testing.T) {
	repo, remote := newRepoWithRemote(t)
	writeFile(t, filepath.Join(repo, "README.md"), "sources")
	mustGit(t, repo, "add", "-A")
	mustGit(t, repo, "commit", "-m", "initial")

	dist := filepath.Join(repo, "dist")
	writeFile(t, filepath.Join(dist, "a.html"), "a")
	p := &Publisher{Now: fixedNow}
	if err := p.Run(context.Background(), Options{Mode: ModeGHPages, Repo: repo, BuildDir: dist}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := os.Remove(filepath.Join(dist, "a.html")); err != nil {
		t.Fatalf("remove a.html: %v", err)
	}
	writeFile(t, filepath.Join(dist, "b.html"), "b")
	if err := p.Run(context.Background(), Options{Mode: ModeGHPages, Repo: repo, BuildDir: dist, KeepFiles: true}); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if got := remoteFiles(t, remote, "gh-pages"); strings.Join(got, ",") != "a.html,b.html" {
		t.Fatalf("expected kept files, got %v", got)
	}
}

func TestPublishPreconditions(t *testing.T) {
	requireGit(t)
	p := &Publisher{Now: fixedNow}

	if err := p.Run(context.Background(), Options{Mode: ModeMain, Repo: t.TempDir()}); err == nil || !strings.Contains(err.Error(), "not a git repository") {
		t.Fatalf("expected not-a-repo error, got %v", err)
	}

	repo, _ := newRepoWithRemote(t)
	if err := p.Run(context.Background(), Options{Mode: ModeMain, Repo: repo, Remote: "upstream"}); err == nil || !strings.Contains(err.Error(), `remote "upstream" not configured`) {
		t.Fatalf("expected missing remote error, got %v", err)
	}
	if err := p.Run(context.Background(), Options{Mode: ModeGHPages, Repo: repo}); err == nil || !strings.Contains(err.Error(), "--build-dir is required") {
		t.Fatalf("expected build dir error, got %v", err)
	}
	empty := filepath.Join(repo, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := p.Run(context.Background(), Options{Mode: ModeGHPages, Repo: repo, BuildDir: empty}); err == nil || !strings.Contains(err.Error(), "not found or empty") {
		t.Fatalf("expected empty build dir error, got %v", err)
	}
	if err := p.Run(context.Background(), Options{Mode: "ftp", Repo: repo}); err == nil || !strings.Contains(err.Error(), "unknown mode") {
		t.Fatalf("expected unknown mode error, got %v", err)
	}
}
