package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	color.NoColor = true
}

// useTempDB points the commands at a fresh database.
func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	useTempDB(t)

	for _, args := range [][]string{
		{"--title", "banana", "--content", "yellow", "--color", "violet"},
		{"--title", "Apple", "--content", "red"},
		{"--title", "cherry", "--content", "dark\nsecond line"},
	} {
		out, err := run(t, AddCmd(), args...)
		require.NoError(t, err, out)
		assert.Contains(t, out, "✓ Added note")
		time.Sleep(2 * time.Millisecond) // distinct timestamps
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default order is newest first",
			want: []string{"cherry", "Apple", "banana"},
		},
		{
			name: "title ascending",
			args: []string{"--order", "title", "--direction", "asc"},
			want: []string{"Apple", "banana", "cherry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, ListCmd(), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Found 3 note(s)")
			assert.NotContains(t, out, "second line", "list shows the first content line only")

			last := -1
			for _, title := range tt.want {
				idx := strings.Index(out, title)
				require.GreaterOrEqual(t, idx, 0, "missing %s", title)
				assert.Greater(t, idx, last, "%s out of order", title)
				last = idx
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	useTempDB(t)

	out, err := run(t, ListCmd())

	require.NoError(t, err)
	assert.Contains(t, out, "No notes found")
}

func TestListInvalidOrder(t *testing.T) {
	useTempDB(t)

	_, err := run(t, ListCmd(), "--order", "size")

	assert.Error(t, err)
}

func TestAddRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "blank title",
			args: []string{"--content", "body"},
			want: "The title of the note can't be empty.",
		},
		{
			name: "blank content",
			args: []string{"--title", "Title"},
			want: "The note has no content.",
		},
		{
			name: "unknown color",
			args: []string{"--title", "t", "--content", "c", "--color", "plaid"},
			want: "invalid color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempDB(t)

			_, err := run(t, AddCmd(), tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEditShowDelete(t *testing.T) {
	useTempDB(t)

	_, err := run(t, AddCmd(), "--title", "Draft", "--content", "v1", "--color", "baby-blue")
	require.NoError(t, err)

	out, err := run(t, EditCmd(), "1", "--content", "v2", "--color", "red-pink")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved note 1: Draft")

	out, err = run(t, ShowCmd(), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Draft")
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "Color: red-pink")

	out, err = run(t, DeleteCmd(), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted note 1: Draft")

	_, err = run(t, ShowCmd(), "1")
	assert.EqualError(t, err, "note 1 not found")
}

func TestEditErrors(t *testing.T) {
	useTempDB(t)

	_, err := run(t, AddCmd(), "--title", "Kept", "--content", "body")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "invalid id", args: []string{"zero"}, want: `invalid note id "zero"`},
		{name: "missing note", args: []string{"42", "--title", "x"}, want: "note 42 not found"},
		{name: "blanked title", args: []string{"1", "--title", " "}, want: "The title of the note can't be empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, EditCmd(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImport(t *testing.T) {
	useTempDB(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.md"), []byte("# Today\n\n- laundry\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), []byte("# Empty\n"), 0o644))

	out, err := run(t, ImportCmd(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 of 2 file(s)")
	assert.Contains(t, out, "1 file(s) skipped")

	out, err = run(t, ShowCmd(), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "- laundry")
}

func TestImportWithoutDir(t *testing.T) {
	useTempDB(t)
	t.Setenv("IMPORT_DIR", "")

	_, err := run(t, ImportCmd())

	assert.ErrorContains(t, err, "IMPORT_DIR is not set")
}

func TestColors(t *testing.T) {
	out, err := run(t, ColorsCmd())

	require.NoError(t, err)
	for _, name := range []string{"red-orange", "light-green", "violet", "baby-blue", "red-pink"} {
		assert.Contains(t, out, name)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "short", width: 10, want: "short"},
		{in: "first\nsecond", width: 10, want: "first"},
		{in: "abcdefghij", width: 5, want: "abcd…"},
		{in: "  padded  ", width: 10, want: "padded"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, preview(tt.in, tt.width), "preview(%q, %d)", tt.in, tt.width)
	}
}
