package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/notedb/pkg/logging"
	"github.com/ssargent/notedb/pkg/storage"
)

func hexOf(b byte) string {
	return strings.Repeat(fmt.Sprintf("%02x", b), 32)
}

func eventLine(id, pubkey byte, createdAt int, tags, content string) string {
	return fmt.Sprintf(
		`{"id":"%s","pubkey":"%s","created_at":%d,"kind":1,"tags":%s,"content":%q}`,
		hexOf(id), hexOf(pubkey), createdAt, tags, content)
}

// run executes the root command against dir and returns stdout.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"--data-dir", filepath.Join(dir, "data"),
		"--log-level", "error",
	}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, dir string) {
	t.Helper()

	lines := strings.Join([]string{
		eventLine(0x01, 0xa0, 100, `[]`, "root note"),
		eventLine(0x02, 0xb0, 200, fmt.Sprintf(`[["e","%s"],["p","%s"]]`, hexOf(0x01), hexOf(0xa0)), "first reply"),
		"",
		"not json",
		eventLine(0x03, 0xa0, 300, fmt.Sprintf(`[["e","%s"],["e","root"]]`, hexOf(0x01)), "second\nreply"),
		eventLine(0x01, 0xa0, 100, `[]`, "root note"),
	}, "\n")

	out, err := run(t, dir, lines, "import", "-")
	require.NoError(t, err)
	assert.Equal(t, "stored 3, duplicates 1, rejected 1\n", out)
}

func TestImportAndRead(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	t.Run("get", func(t *testing.T) {
		out, err := run(t, dir, "", "get", hexOf(0x02))
		require.NoError(t, err)
		assert.Contains(t, out, `"content": "first reply"`)
		assert.Contains(t, out, `"created_at": 200`)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := run(t, dir, "", "get", hexOf(0x09))
		assert.Error(t, err)
	})

	t.Run("get bad id", func(t *testing.T) {
		_, err := run(t, dir, "", "get", "xyz")
		assert.ErrorContains(t, err, "64 hex characters")
	})

	t.Run("refs", func(t *testing.T) {
		out, err := run(t, dir, "", "refs", hexOf(0x03), "--key", "e", "--first=false")
		require.NoError(t, err)
		assert.Equal(t, "e\tid\t"+hexOf(0x01)+"\ne\ttext\troot\n", out)

		out, err = run(t, dir, "", "refs", hexOf(0x03), "--key", "e", "--first")
		require.NoError(t, err)
		assert.Equal(t, "e\tid\t"+hexOf(0x01)+"\n", out)

		out, err = run(t, dir, "", "refs", hexOf(0x02), "--key", "p", "--first=false")
		require.NoError(t, err)
		assert.Equal(t, "p\tid\t"+hexOf(0xa0)+"\n", out)
	})

	t.Run("replies", func(t *testing.T) {
		out, err := run(t, dir, "", "replies", hexOf(0x01), "-n", "0")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], hexOf(0x02)))
		assert.True(t, strings.HasPrefix(lines[1], hexOf(0x03)))
		assert.Contains(t, lines[1], "second reply")
	})

	t.Run("author", func(t *testing.T) {
		out, err := run(t, dir, "", "author", hexOf(0xa0), "-n", "1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, hexOf(0x03)))
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("recent", func(t *testing.T) {
		out, err := run(t, dir, "", "recent", "-n", "0")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], hexOf(0x03)))
		assert.Contains(t, lines[2], "text")
	})

	t.Run("stats", func(t *testing.T) {
		out, err := run(t, dir, "", "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Notes: 3\n")
	})
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", path, "--data-dir", filepath.Join(dir, "data"), "init", "--force=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "API key:")
	assert.FileExists(t, path)

	out.Reset()
	rootCmd.SetArgs([]string{"--config", path, "--data-dir", filepath.Join(dir, "data"), "init", "--force=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "already exists")
}

func TestImportEvents_SkipsLongLines(t *testing.T) {
	store, err := storage.Open(storage.Options{Dir: t.TempDir(), Logger: logging.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	input := strings.Join([]string{
		eventLine(0x01, 0xa0, 100, `[]`, "before"),
		eventLine(0x02, 0xa0, 200, `[]`, strings.Repeat("x", 200*1024)),
		eventLine(0x03, 0xa0, 300, `[]`, "after"),
	}, "\n")

	res, err := importEvents(store, strings.NewReader(input), 1024)
	require.NoError(t, err)
	assert.Equal(t, importResult{Stored: 2, Rejected: 1}, res)

	id, err := parseID(hexOf(0x03))
	require.NoError(t, err)
	ok, err := store.Has(id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := parseID(hexOf(0x5c))
	require.NoError(t, err)
	assert.Equal(t, byte(0x5c), id[31])

	_, err = parseID("abc")
	assert.Error(t, err)
	_, err = parseID(strings.Repeat("g", 64))
	assert.Error(t, err)
}
