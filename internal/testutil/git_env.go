package testutil

import "os"

const (
	GitUserName  = "Weldsite Test"
	GitUserEmail = "weldsite-test@example.invalid"
)

// SetGitEnvHardening isolates git from the host config, gives commits a fixed
// identity and returns a restore func.
func SetGitEnvHardening() func() {
	restores := []func(){
		setEnv("GIT_CONFIG_NOSYSTEM", "1"),
		setEnv("GIT_CONFIG_GLOBAL", os.DevNull),
		setEnv("GIT_TERMINAL_PROMPT", "0"),
		setEnv("GIT_ASKPASS", "false"),
		setEnv("GIT_AUTHOR_NAME", GitUserName),
		setEnv("GIT_AUTHOR_EMAIL", GitUserEmail),
		setEnv("GIT_COMMITTER_NAME", GitUserName),
		setEnv("GIT_COMMITTER_EMAIL", GitUserEmail),
	}
	return func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}

func setEnv(key, value string) func() {
	prev, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	return func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	}
}
