package store

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Stage identifies how far setup validation got before failing.
// Stages are strictly ordered; a later stage is only evaluated when all
// earlier stages passed.
type Stage int

const (
	StageNotChecked Stage = iota
	StageToolMissing
	StageCryptoToolMissing
	StageNoSigningKey
	StageStoreUnbound
	StageKeyNotInKeyring
	StageStoreUninitialized
	StageValid
)

func (s Stage) String() string {
	switch s {
	case StageNotChecked:
		return "not checked"
	case StageToolMissing:
		return "pass missing"
	case StageCryptoToolMissing:
		return "gpg missing"
	case StageNoSigningKey:
		return "no signing key"
	case StageStoreUnbound:
		return "store not bound to a key"
	case StageKeyNotInKeyring:
		return "bound key not in keyring"
	case StageStoreUninitialized:
		return "store not initialized"
	case StageValid:
		return "valid"
	default:
		return "unknown"
	}
}

// ValidationStatus is the outcome of one validation pass. It is a
// synchronous snapshot, not persistent state: the environment can change
// between calls (e.g. after guided remediation), so callers re-run
// Validate to get a fresh one.
type ValidationStatus struct {
	Stage       Stage
	BoundKeyID  string
	Remediation string
}

// Valid reports terminal success.
func (s ValidationStatus) Valid() bool { return s.Stage == StageValid }

// SetupValidator runs the ordered dependency probes: pass present, gpg
// present, a secret signing key exists, the store is bound to a key id,
// the bound key is in the keyring, the store directory is initialized.
// It never attempts remediation itself; each failing stage carries a
// suggested next action for a guided setup flow.
type SetupValidator struct {
	storeDir string
	passBin  string
	gpgBin   string

	// Probes are injectable for tests.
	lookPath func(file string) (string, error)
	runGPG   func(ctx context.Context, args ...string) (string, error)
}

// NewSetupValidator creates a validator for the given store root and
// tool binaries. Empty binary names fall back to the defaults.
func NewSetupValidator(storeDir, passBin, gpgBin string) *SetupValidator {
	if passBin == "" {
		passBin = DefaultPassBin
	}
	if gpgBin == "" {
		gpgBin = DefaultGPGBin
	}
	v := &SetupValidator{
		storeDir: storeDir,
		passBin:  passBin,
		gpgBin:   gpgBin,
		lookPath: exec.LookPath,
	}
	v.runGPG = func(ctx context.Context, args ...string) (string, error) {
		cmd := exec.CommandContext(ctx, v.gpgBin, args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &bytes.Buffer{}
		err := cmd.Run()
		return out.String(), err
	}
	return v
}

// Validate evaluates the checks strictly in order and stops at the first
// failing one. It performs several subprocess probes and should run off
// any interactive thread.
func (v *SetupValidator) Validate(ctx context.Context) ValidationStatus {
	if _, err := v.lookPath(v.passBin); err != nil {
		return ValidationStatus{
			Stage:       StageToolMissing,
			Remediation: "install pass (https://www.passwordstore.org) and make sure it is on PATH",
		}
	}

	if _, err := v.runGPG(ctx, "--version"); err != nil {
		return ValidationStatus{
			Stage:       StageCryptoToolMissing,
			Remediation: "install GnuPG and make sure " + v.gpgBin + " is on PATH",
		}
	}

	secretKeys, err := v.runGPG(ctx, "--list-secret-keys", "--with-colons")
	if err != nil || !hasSecretKey(secretKeys) {
		return ValidationStatus{
			Stage:       StageNoSigningKey,
			Remediation: "create a signing key with gpg --full-generate-key",
		}
	}

	boundKey, ok := readBoundKey(v.storeDir)
	if !ok {
		return ValidationStatus{
			Stage:       StageStoreUnbound,
			Remediation: "initialize the store with a key id: passctl init <gpg-id>",
		}
	}

	if _, err := v.runGPG(ctx, "--list-keys", boundKey); err != nil {
		return ValidationStatus{
			Stage:       StageKeyNotInKeyring,
			BoundKeyID:  boundKey,
			Remediation: "import the key " + boundKey + " into your keyring",
		}
	}

	if info, err := os.Stat(v.storeDir); err != nil || !info.IsDir() {
		return ValidationStatus{
			Stage:       StageStoreUninitialized,
			BoundKeyID:  boundKey,
			Remediation: "create the store directory with passctl init <gpg-id>",
		}
	}

	return ValidationStatus{Stage: StageValid, BoundKeyID: boundKey}
}

// hasSecretKey scans gpg --with-colons output for a sec record.
func hasSecretKey(colons string) bool {
	for _, line := range strings.Split(colons, "\n") {
		if strings.HasPrefix(line, "sec:") {
			return true
		}
	}
	return false
}

// readBoundKey reads the first key id from the .gpg-id binding marker at
// the store root.
func readBoundKey(storeDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(storeDir, GPGIDFile))
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			return id, true
		}
	}
	return "", false
}
