package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dkildau/passctl/internal/log"
	"github.com/dkildau/passctl/pkg/audit"
)

// Options configures a Store.
type Options struct {
	// RootDir is the explicit store root. When empty, the
	// PASSWORD_STORE_DIR environment variable and then the default
	// ~/.password-store apply, in that order.
	RootDir string

	// PassBin and GPGBin override the tool binaries. Empty means the
	// defaults ("pass", "gpg").
	PassBin string
	GPGBin  string

	// Timeout caps every external tool call. Zero means
	// DefaultToolTimeout.
	Timeout time.Duration

	// CacheCapacity and CacheTTL bound the decrypted-entry cache.
	CacheCapacity int
	CacheTTL      time.Duration

	// Audit receives operation events. Nil disables auditing.
	Audit *audit.Logger

	// Source tags audit events with where operations originate.
	Source string
}

// Store is the gateway every caller goes through to reach the backing
// password store. It validates paths before any I/O, drives the setup
// validator before mutating operations, invokes the external tool as
// subordinate processes, and keeps the entry cache consistent: the cache
// is only touched after the tool confirms success, and never on a
// cancelled call.
type Store struct {
	root   string
	runner toolRunner
	cache  *EntryCache
	setup  *SetupValidator
	audit  *audit.Logger
	source string

	mu        sync.Mutex
	validated *ValidationStatus // session-scoped; only a Valid result is kept
}

// New creates a Store for the resolved root directory.
func New(opts Options) *Store {
	root := ResolveRoot(opts.RootDir)
	source := opts.Source
	if source == "" {
		source = audit.SourceCLI
	}
	return &Store{
		root:   root,
		runner: newExecRunner(opts.PassBin, root, opts.Timeout),
		cache:  NewEntryCache(opts.CacheCapacity, opts.CacheTTL),
		setup:  NewSetupValidator(root, opts.PassBin, opts.GPGBin),
		audit:  opts.Audit,
		source: source,
	}
}

// Root returns the resolved store root directory.
func (s *Store) Root() string { return s.root }

// Cache exposes the entry cache so a caller can Clear() it on security
// lock, and so the store watcher can invalidate keys.
func (s *Store) Cache() *EntryCache { return s.cache }

// Validate runs a fresh setup validation pass.
func (s *Store) Validate(ctx context.Context) ValidationStatus {
	return s.setup.Validate(ctx)
}

// ensureValid gates mutating operations on a valid setup. A Valid result
// is cached for the session; failures are returned every time so the
// caller can re-validate after remediation.
func (s *Store) ensureValid(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validated != nil && s.validated.Valid() {
		return nil
	}
	status := s.setup.Validate(ctx)
	if !status.Valid() {
		return &ValidationError{Stage: status.Stage, Remediation: status.Remediation}
	}
	s.validated = &status
	return nil
}

// List walks the store root, following subdirectories, skipping the
// version-control directory, and collecting encrypted record files with
// the suffix stripped. The result is lexicographically sorted. A missing
// root yields an empty list, not an error.
func (s *Store) List() ([]string, error) {
	if _, err := os.Stat(s.root); err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("store: failed to stat store root: %w", err)
	}

	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == versionControlDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), EncryptedSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(strings.TrimSuffix(rel, EncryptedSuffix))
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to walk store root: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Tree lists the store and assembles the hierarchy in one call.
func (s *Store) Tree() (*Node, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	return BuildTree(paths), nil
}

// GetDetails fetches one entry, cache-first. Folder entries are derived
// from the listing (some path is a strict descendant) and bypass the
// cache; leaf entries are decrypted via the external tool, parsed, cached
// and returned.
func (s *Store) GetDetails(ctx context.Context, path string) (*Entry, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	if entry, ok := s.cache.Get(path); ok {
		log.Debugf("cache hit for %s", path)
		return entry, nil
	}

	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	isLeaf, isFolder := classifyPath(paths, path)
	if isFolder && !isLeaf {
		return &Entry{Path: path, IsFolder: true}, nil
	}
	if !isLeaf {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	res, err := s.runner.run(ctx, "", "show", path)
	if err != nil {
		return nil, err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(audit.OpShow, s.source, path, res.message())
		return nil, &ToolError{Op: "show", ExitCode: res.exitCode, Message: res.message()}
	}

	entry := &Entry{Path: path, Fields: ParseContent(strings.TrimSuffix(res.stdout, "\n"))}
	if ctx.Err() == nil {
		s.cache.Put(path, entry)
	}
	_ = s.audit.LogSuccess(audit.OpShow, s.source, path)
	return entry, nil
}

// Create inserts a new entry. It fails with ErrAlreadyExists when the
// target exists (force is off for creation); on success the cache key is
// invalidated.
func (s *Store) Create(ctx context.Context, path, content string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("%w: entry content is empty", ErrEmptyInput)
	}
	if err := s.ensureValid(ctx); err != nil {
		return err
	}

	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if p == path {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
	}

	return s.insert(ctx, audit.OpCreate, path, content)
}

// Update overwrites an entry, creating it if absent; on success the cache
// key is invalidated.
func (s *Store) Update(ctx context.Context, path, content string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("%w: entry content is empty", ErrEmptyInput)
	}
	if err := s.ensureValid(ctx); err != nil {
		return err
	}
	return s.insert(ctx, audit.OpUpdate, path, content)
}

// insert runs pass insert -m -f with the blob on stdin. The force flag is
// always passed so the tool never blocks on an interactive overwrite
// prompt; Create enforces the no-overwrite contract itself.
func (s *Store) insert(ctx context.Context, op, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	res, err := s.runner.run(ctx, content, "insert", "-m", "-f", path)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(op, s.source, path, res.message())
		if strings.Contains(res.stderr, "already exists") {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return &ToolError{Op: "insert", ExitCode: res.exitCode, Message: res.message()}
	}

	if ctx.Err() == nil {
		s.cache.Invalidate(path)
	}
	_ = s.audit.LogSuccess(op, s.source, path)
	return nil
}

// Delete removes an entry; on success the cache key is invalidated.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := s.ensureValid(ctx); err != nil {
		return err
	}

	res, err := s.runner.run(ctx, "", "rm", "-r", "-f", path)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(audit.OpDelete, s.source, path, res.message())
		if strings.Contains(res.stderr, "is not in the password store") {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return &ToolError{Op: "rm", ExitCode: res.exitCode, Message: res.message()}
	}

	if ctx.Err() == nil {
		s.cache.Invalidate(path)
	}
	_ = s.audit.LogSuccess(audit.OpDelete, s.source, path)
	return nil
}

// Move renames an entry. Moving a path onto itself is an ErrInvalidPath
// before any tool invocation; on success both cache keys are invalidated.
func (s *Store) Move(ctx context.Context, oldPath, newPath string) error {
	if err := ValidatePath(oldPath); err != nil {
		return err
	}
	if err := ValidatePath(newPath); err != nil {
		return err
	}
	if oldPath == newPath {
		return fmt.Errorf("%w: source and destination are the same", ErrInvalidPath)
	}
	if err := s.ensureValid(ctx); err != nil {
		return err
	}

	res, err := s.runner.run(ctx, "", "mv", "-f", oldPath, newPath)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(audit.OpMove, s.source, oldPath, res.message())
		return &ToolError{Op: "mv", ExitCode: res.exitCode, Message: res.message()}
	}

	if ctx.Err() == nil {
		s.cache.Invalidate(oldPath)
		s.cache.Invalidate(newPath)
	}
	_ = s.audit.LogSuccess(audit.OpMove, s.source, oldPath+" -> "+newPath)
	return nil
}

// Search delegates to the backing tool's content grep. Exit status 1 from
// the underlying grep means "no matches" and is a success with an empty
// result; any other non-zero status is an error carrying the tool's
// diagnostic text.
func (s *Store) Search(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrEmptyInput)
	}

	res, err := s.runner.run(ctx, "", "grep", query)
	if err != nil {
		return nil, err
	}
	switch res.exitCode {
	case 0:
		// Fall through to output parsing.
	case 1:
		return []string{}, nil
	default:
		_ = s.audit.LogError(audit.OpSearch, s.source, "", res.message())
		return nil, &ToolError{Op: "grep", ExitCode: res.exitCode, Message: res.message()}
	}

	matches := parseGrepPaths(res.stdout)
	_ = s.audit.LogSuccess(audit.OpSearch, s.source, "")
	return matches, nil
}

// SyncPull and SyncPush are thin pass-throughs to the tool's git
// synchronization; failures carry the tool's diagnostic text verbatim.
func (s *Store) SyncPull(ctx context.Context) error {
	return s.sync(ctx, audit.OpSyncPull, "pull")
}

func (s *Store) SyncPush(ctx context.Context) error {
	return s.sync(ctx, audit.OpSyncPush, "push")
}

func (s *Store) sync(ctx context.Context, op, direction string) error {
	res, err := s.runner.run(ctx, "", "git", direction)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(op, s.source, "", res.message())
		return &ToolError{Op: "git " + direction, ExitCode: res.exitCode, Message: res.message()}
	}
	_ = s.audit.LogSuccess(op, s.source, "")
	return nil
}

// InitStore binds the store to a signing key via pass init, then drops
// the session validation so the next mutation re-validates against the
// fresh environment.
func (s *Store) InitStore(ctx context.Context, keyID string) error {
	if keyID == "" {
		return fmt.Errorf("%w: key id is empty", ErrEmptyInput)
	}

	res, err := s.runner.run(ctx, "", "init", keyID)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		_ = s.audit.LogError(audit.OpInit, s.source, "", res.message())
		return &ToolError{Op: "init", ExitCode: res.exitCode, Message: res.message()}
	}

	s.mu.Lock()
	s.validated = nil
	s.mu.Unlock()

	_ = s.audit.LogSuccess(audit.OpInit, s.source, "")
	return nil
}

// classifyPath reports whether path is a listed leaf and/or a folder
// (some listed path is a strict descendant of it).
func classifyPath(paths []string, path string) (isLeaf, isFolder bool) {
	prefix := path + "/"
	for _, p := range paths {
		if p == path {
			isLeaf = true
		} else if strings.HasPrefix(p, prefix) {
			isFolder = true
		}
	}
	return isLeaf, isFolder
}

// parseGrepPaths extracts entry paths from pass grep output: entry names
// are printed as unindented header lines ending in ':', followed by the
// indented matching lines.
func parseGrepPaths(out string) []string {
	matches := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		header := strings.TrimSuffix(strings.TrimSpace(stripANSI(line)), ":")
		if header == "" {
			continue
		}
		matches = append(matches, header)
	}
	return matches
}

// stripANSI removes color escape sequences that pass emits even when
// piped on some platforms.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == ';') {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
