package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts external tool responses and records invocations.
type fakeRunner struct {
	calls   [][]string
	results map[string]runResult // keyed by the first argument (the subcommand)
	err     error
}

func (f *fakeRunner) run(_ context.Context, stdin string, args ...string) (runResult, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return runResult{}, f.err
	}
	return f.results[args[0]], nil
}

// newTestStore builds a store over a temp directory with a scripted
// runner and validation already satisfied.
func newTestStore(t *testing.T, runner *fakeRunner) *Store {
	t.Helper()

	s := &Store{
		root:   t.TempDir(),
		runner: runner,
		cache:  NewEntryCache(8, time.Minute),
		setup:  NewSetupValidator(t.TempDir(), "", ""),
		source: "cli",
	}
	s.validated = &ValidationStatus{Stage: StageValid}
	return s
}

// writeEntryFile materializes an encrypted-looking record on disk so
// List() sees it.
func writeEntryFile(t *testing.T, root, path string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(path)+EncryptedSuffix)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0700))
	require.NoError(t, os.WriteFile(full, []byte("binary"), 0600))
}

func TestListSortedAndFiltered(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})
	writeEntryFile(t, s.root, "web/github")
	writeEntryFile(t, s.root, "banking/main")
	writeEntryFile(t, s.root, "aaa")

	// Version control internals and stray files never appear.
	require.NoError(t, os.MkdirAll(filepath.Join(s.root, ".git", "objects"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(s.root, ".git", "objects", "x.gpg"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(s.root, ".gpg-id"), []byte("key"), 0600))

	paths, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "banking/main", "web/github"}, paths)
}

func TestListMissingRootIsEmpty(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})
	s.root = filepath.Join(t.TempDir(), "does-not-exist")

	paths, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestGetDetailsLeaf(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{
		"show": {stdout: "pw\nusername: bob\n"},
	}}
	s := newTestStore(t, runner)
	writeEntryFile(t, s.root, "web/github")

	entry, err := s.GetDetails(context.Background(), "web/github")
	require.NoError(t, err)
	assert.False(t, entry.IsFolder)
	assert.Equal(t, "pw", entry.Fields.Password)
	assert.Equal(t, "bob", entry.Fields.Username)

	// The second fetch is served from the cache.
	_, err = s.GetDetails(context.Background(), "web/github")
	require.NoError(t, err)
	assert.Len(t, runner.calls, 1)
}

func TestGetDetailsFolder(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestStore(t, runner)
	writeEntryFile(t, s.root, "web/github")

	entry, err := s.GetDetails(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, entry.IsFolder)
	// Folder entries are derived from the listing, never decrypted.
	assert.Empty(t, runner.calls)
}

func TestGetDetailsNotFound(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})

	_, err := s.GetDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDetailsInvalidPath(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})

	_, err := s.GetDetails(context.Background(), "../oops")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestCreateNewEntry(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"insert": {}}}
	s := newTestStore(t, runner)

	err := s.Create(context.Background(), "web/new", "pw\n")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"insert", "-m", "-f", "web/new"}, runner.calls[0])
}

func TestCreateExistingFails(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestStore(t, runner)
	writeEntryFile(t, s.root, "web/github")

	err := s.Create(context.Background(), "web/github", "pw\n")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	// The tool is never invoked for a doomed create.
	assert.Empty(t, runner.calls)
}

func TestCreateEmptyContent(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})

	err := s.Create(context.Background(), "web/new", "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"insert": {}}}
	s := newTestStore(t, runner)
	s.cache.Put("web/github", &Entry{Path: "web/github"})

	require.NoError(t, s.Update(context.Background(), "web/github", "new-pw\n"))

	_, ok := s.cache.Get("web/github")
	assert.False(t, ok)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"rm": {}}}
	s := newTestStore(t, runner)
	s.cache.Put("web/github", &Entry{Path: "web/github"})

	require.NoError(t, s.Delete(context.Background(), "web/github"))

	_, ok := s.cache.Get("web/github")
	assert.False(t, ok)
	assert.Equal(t, []string{"rm", "-r", "-f", "web/github"}, runner.calls[0])
}

func TestDeleteMissingEntry(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{
		"rm": {exitCode: 1, stderr: "Error: web/nope is not in the password store.\n"},
	}}
	s := newTestStore(t, runner)

	err := s.Delete(context.Background(), "web/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveSamePathNeverInvokesTool(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestStore(t, runner)

	err := s.Move(context.Background(), "a", "a")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, runner.calls)
}

func TestMoveInvalidatesBothKeys(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"mv": {}}}
	s := newTestStore(t, runner)
	s.cache.Put("a", &Entry{Path: "a"})
	s.cache.Put("b", &Entry{Path: "b"})

	require.NoError(t, s.Move(context.Background(), "a", "b"))

	assert.Equal(t, 0, s.cache.Len())
}

func TestSearchNoMatchesIsSuccess(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"grep": {exitCode: 1}}}
	s := newTestStore(t, runner)

	matches, err := s.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchParsesEntryHeaders(t *testing.T) {
	out := "web/github:\n" +
		"    username: bob\n" +
		"banking/main:\n" +
		"\tbob@example.com\n"
	runner := &fakeRunner{results: map[string]runResult{"grep": {stdout: out}}}
	s := newTestStore(t, runner)

	matches, err := s.Search(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"web/github", "banking/main"}, matches)
}

func TestSearchToolFailure(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{
		"grep": {exitCode: 2, stderr: "gpg: decryption failed"},
	}}
	s := newTestStore(t, runner)

	_, err := s.Search(context.Background(), "bob")
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 2, toolErr.ExitCode)
	assert.Contains(t, toolErr.Message, "decryption failed")
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})

	_, err := s.Search(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMutationsGatedOnValidation(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestStore(t, runner)
	s.validated = nil
	s.setup.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	err := s.Create(context.Background(), "a", "pw\n")
	require.ErrorIs(t, err, ErrValidationFailed)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StageToolMissing, vErr.Stage)
	assert.NotEmpty(t, vErr.Remediation)
	assert.Empty(t, runner.calls)
}

func TestCancelledFetchDoesNotPopulateCache(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{
		"show": {stdout: "pw\n"},
	}}
	s := newTestStore(t, runner)
	writeEntryFile(t, s.root, "web/github")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fake runner ignores cancellation and still returns output; the
	// gateway must nevertheless refuse to cache the result.
	_, err := s.GetDetails(ctx, "web/github")
	require.NoError(t, err)
	assert.Equal(t, 0, s.cache.Len())
}

func TestSyncFailuresCarryToolMessage(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{
		"git": {exitCode: 1, stderr: "fatal: could not read from remote"},
	}}
	s := newTestStore(t, runner)

	err := s.SyncPull(context.Background())
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.True(t, strings.Contains(toolErr.Message, "remote"))
}

func TestInitStoreResetsValidation(t *testing.T) {
	runner := &fakeRunner{results: map[string]runResult{"init": {}}}
	s := newTestStore(t, runner)

	require.NoError(t, s.InitStore(context.Background(), "alice@example.com"))
	assert.Nil(t, s.validated)
	assert.Equal(t, []string{"init", "alice@example.com"}, runner.calls[0])
}

func TestInitStoreEmptyKey(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})

	err := s.InitStore(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
