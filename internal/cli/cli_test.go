package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerolayer/zerolayer/internal/logging"
	"github.com/zerolayer/zerolayer/internal/naming"
)

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	opts := &Options{LogLevel: logging.LevelInfo}
	cmd := newRootCommand(opts, logging.NewLogger(io.Discard, logging.LevelError))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.Execute()
	return out.String(), err
}

// seedStore creates a store directory with archives for the given tokens.
func seedStore(t *testing.T, tokens ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, token := range tokens {
		path := filepath.Join(dir, naming.Encode(naming.Generated(token)))
		require.NoError(t, os.WriteFile(path, []byte("archive-"+token), 0o644))
	}
	return dir
}

// linkCurrent points the store's current link at the archive for token.
func linkCurrent(t *testing.T, dir, token string) {
	t.Helper()
	target := filepath.Join(dir, naming.Encode(naming.Generated(token)))
	link := filepath.Join(dir, naming.Encode(naming.Current()))
	require.NoError(t, os.Symlink(target, link))
}

func TestListCommand(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")
	linkCurrent(t, dir, "11111111")

	out, err := runCommand(t, nil, "list", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "boot_env.11111111.tar.gz")
	assert.Contains(t, out, "boot_env.22222222.tar.gz")
	assert.Contains(t, out, "boot_env.current.tar.gz")
}

func TestListCommand_IgnoreCurrent(t *testing.T) {
	dir := seedStore(t, "11111111")
	linkCurrent(t, dir, "11111111")

	out, err := runCommand(t, nil, "list", "--store-dir", dir, "--ignore-current")
	require.NoError(t, err)
	assert.Contains(t, out, "boot_env.11111111.tar.gz")
	assert.NotContains(t, out, "boot_env.current.tar.gz")
}

func TestListCommand_MissingStore(t *testing.T) {
	_, err := runCommand(t, nil, "list", "--store-dir", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestListCommand_EmptyStoreIsNotAnError(t *testing.T) {
	out, err := runCommand(t, nil, "list", "--store-dir", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListCommand_StoreDirFromEnv(t *testing.T) {
	dir := seedStore(t, "11111111")
	t.Setenv("ZEROLAYER_IMAGE_DIR", dir)

	out, err := runCommand(t, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "boot_env.11111111.tar.gz")
}

func TestSwitchCommand(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "switch", "22222222", "--store-dir", dir)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(dir, naming.Encode(naming.Current())))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boot_env.22222222.tar.gz"), target)
}

func TestSwitchCommand_UnknownIdentifier(t *testing.T) {
	dir := seedStore(t, "11111111")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "switch", "99999999", "--store-dir", dir)
	require.Error(t, err)

	// Pointer unchanged.
	target, err := os.Readlink(filepath.Join(dir, naming.Encode(naming.Current())))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boot_env.11111111.tar.gz"), target)
}

func TestClearCommand_ByIdentifier(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")

	_, err := runCommand(t, nil, "clear", "--identifier", "11111111", "--no-confirm", "--store-dir", dir)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "boot_env.11111111.tar.gz"))
	assert.FileExists(t, filepath.Join(dir, "boot_env.22222222.tar.gz"))
}

func TestClearCommand_CurrentIdentifierRemovesOnlyLink(t *testing.T) {
	dir := seedStore(t, "11111111")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "clear", "--identifier", "current", "--no-confirm", "--store-dir", dir)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, naming.Encode(naming.Current())))
	assert.FileExists(t, filepath.Join(dir, "boot_env.11111111.tar.gz"))
}

func TestClearCommand_AllKeepsCurrentTarget(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "clear", "--all", "--no-confirm", "--store-dir", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "boot_env.11111111.tar.gz"))
	assert.NoFileExists(t, filepath.Join(dir, "boot_env.22222222.tar.gz"))
}

func TestClearCommand_AllForced(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "clear", "--all", "--no-confirm", "--force", "--store-dir", dir)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "boot_env.11111111.tar.gz"))
	assert.NoFileExists(t, filepath.Join(dir, "boot_env.22222222.tar.gz"))
	assert.NoFileExists(t, filepath.Join(dir, naming.Encode(naming.Current())))
}

func TestClearCommand_ConfirmationDeclined(t *testing.T) {
	dir := seedStore(t, "11111111")

	_, err := runCommand(t, bytes.NewBufferString("n\n"), "clear", "--identifier", "11111111", "--store-dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "boot_env.11111111.tar.gz"))
}

func TestClearCommand_InteractiveSelection(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")

	in := bytes.NewBufferString("1\ny\n")
	out, err := runCommand(t, in, "clear", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Which environment do you want to delete?")

	remaining := 0
	for _, token := range []string{"11111111", "22222222"} {
		if _, statErr := os.Stat(filepath.Join(dir, naming.Encode(naming.Generated(token)))); statErr == nil {
			remaining++
		}
	}
	assert.Equal(t, 1, remaining)
}

func TestStatusCommand(t *testing.T) {
	dir := seedStore(t, "11111111")
	linkCurrent(t, dir, "11111111")

	out, err := runCommand(t, nil, "status", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "boot_env.11111111.tar.gz")
}

func TestStatusCommand_EmptyAndDegradedStores(t *testing.T) {
	// Empty store: no output, no error.
	out, err := runCommand(t, nil, "status", "--store-dir", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out)

	// Environments without a pointer: degraded, still no hard error.
	dir := seedStore(t, "11111111")
	out, err = runCommand(t, nil, "status", "--store-dir", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBuildCommand_DryRun(t *testing.T) {
	storeDir := filepath.Join(t.TempDir(), "store")
	srcDir := t.TempDir()

	_, err := runCommand(t, nil, "build", "--dry-run", "--store-dir", storeDir, "--containerfile-dir", srcDir)
	require.NoError(t, err)
	assert.NoDirExists(t, storeDir)
}

func TestRebaseCommand_DryRun(t *testing.T) {
	dir := seedStore(t, "11111111", "22222222")
	linkCurrent(t, dir, "11111111")

	_, err := runCommand(t, nil, "rebase", "--identifier", "22222222", "--dry-run", "--store-dir", dir)
	require.NoError(t, err)

	// Dry-run leaves the pointer untouched.
	target, err := os.Readlink(filepath.Join(dir, naming.Encode(naming.Current())))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boot_env.11111111.tar.gz"), target)
}

func TestClearCommand_MissingStore(t *testing.T) {
	_, err := runCommand(t, nil, "clear", "--all", "--no-confirm", "--store-dir", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
