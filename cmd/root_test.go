package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "extract")
}

func TestExtractRequiresArgs(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"extract"})
	root.SetOut(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestExtractReportsUnreadablePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

	root := NewRootCommand()
	root.SetArgs([]string{"extract", path})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")

	root = NewRootCommand()
	root.SetArgs([]string{"extract", filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, root.Execute())
}

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Total Revenue: $1"), 0644))

	root := NewRootCommand()
	root.SetArgs([]string{"extract", path})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, dto.ErrNotPDF)
}

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("DEBUG").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("nonsense").GetLevel())
}
