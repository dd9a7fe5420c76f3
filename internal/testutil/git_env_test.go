package testutil

import (
	"os"
	"testing"
)

func TestSetGitEnvHardening(t *testing.T) {
	_ = os.Unsetenv("GIT_CONFIG_NOSYSTEM")
	t.Setenv("GIT_TERMINAL_PROMPT", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Someone Else")
	restore := SetGitEnvHardening()
	if got := os.Getenv("GIT_CONFIG_NOSYSTEM"); got != "1" {
		t.Fatalf("expected GIT_CONFIG_NOSYSTEM=1, got %q", got)
	}
	if got := os.Getenv("GIT_CONFIG_GLOBAL"); got != os.DevNull {
		t.Fatalf("expected GIT_CONFIG_GLOBAL=%s, got %q", os.DevNull, got)
	}
	if got := os.Getenv("GIT_TERMINAL_PROMPT"); got != "0" {
		t.Fatalf("expected GIT_TERMINAL_PROMPT=0, got %q", got)
	}
	if got := os.Getenv("GIT_AUTHOR_NAME"); got != GitUserName {
		t.Fatalf("expected GIT_AUTHOR_NAME=%q, got %q", GitUserName, got)
	}
	if got := os.Getenv("GIT_COMMITTER_EMAIL"); got != GitUserEmail {
		t.Fatalf("expected GIT_COMMITTER_EMAIL=%q, got %q", GitUserEmail, got)
	}

	restore()
	if _, ok := os.LookupEnv("GIT_CONFIG_NOSYSTEM"); ok {
		t.Fatalf("expected unset GIT_CONFIG_NOSYSTEM after restore")
	}
	if got := os.Getenv("GIT_TERMINAL_PROMPT"); got != "1" {
		t.Fatalf("expected restored GIT_TERMINAL_PROMPT=1, got %q", got)
	}
	if got := os.Getenv("GIT_AUTHOR_NAME"); got != "Someone Else" {
		t.Fatalf("expected restored GIT_AUTHOR_NAME, got %q", got)
	}
}
