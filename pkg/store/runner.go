package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Backing store layout constants. The store is consumed, not owned: the
// external pass tool reads and writes it.
const (
	DefaultPassBin  = "pass"
	DefaultGPGBin   = "gpg"
	EncryptedSuffix = ".gpg"
	GPGIDFile       = ".gpg-id"

	// versionControlDir is skipped during listing.
	versionControlDir = ".git"

	// storeDirEnv overrides the default store root unless an explicit
	// root was supplied programmatically.
	storeDirEnv = "PASSWORD_STORE_DIR"

	// DefaultToolTimeout caps every external tool call: pass can wait
	// forever on a passphrase prompt in a headless context.
	DefaultToolTimeout = 15 * time.Second
)

// DefaultStoreDir returns ~/.password-store, the tool's compiled-in
// default root.
func DefaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".password-store"
	}
	return filepath.Join(home, ".password-store")
}

// ResolveRoot applies the root precedence: explicit argument wins over the
// PASSWORD_STORE_DIR environment variable, which wins over the default.
func ResolveRoot(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(storeDirEnv); env != "" {
		return env
	}
	return DefaultStoreDir()
}

// runResult captures one external tool invocation.
type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// message returns the diagnostic text of a failed invocation: stderr,
// falling back to stdout.
func (r runResult) message() string {
	if msg := strings.TrimSpace(r.stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(r.stdout)
}

// toolRunner abstracts subordinate pass invocations so tests can fake the
// external tool. A non-zero exit status is not an error at this layer;
// callers map exit codes because the meaning is operation-specific
// (search exit 1 is "no matches", not a failure).
type toolRunner interface {
	run(ctx context.Context, stdin string, args ...string) (runResult, error)
}

// execRunner invokes the real pass binary. When the configured store root
// differs from the tool's compiled-in default, PASSWORD_STORE_DIR is set
// explicitly so the tool never operates on the wrong store.
type execRunner struct {
	bin      string
	storeDir string
	timeout  time.Duration
}

func newExecRunner(bin, storeDir string, timeout time.Duration) *execRunner {
	if bin == "" {
		bin = DefaultPassBin
	}
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	return &execRunner{bin: bin, storeDir: storeDir, timeout: timeout}
}

func (r *execRunner) run(ctx context.Context, stdin string, args ...string) (runResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.bin, args...)
	if r.storeDir != "" && r.storeDir != DefaultStoreDir() {
		cmd.Env = append(os.Environ(), storeDirEnv+"="+r.storeDir)
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.String(), stderr: stderr.String()}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return res, fmt.Errorf("%w: %s %s after %s", ErrTimeout, r.bin, strings.Join(args, " "), r.timeout)
	case ctx.Err() != nil:
		return res, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return res, fmt.Errorf("%w: %q", ErrToolNotFound, r.bin)
		}
		return res, fmt.Errorf("store: failed to run %s: %w", r.bin, err)
	}

	return res, nil
}
