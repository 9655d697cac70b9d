package codegen

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/formula"
)

func sampleManifest() *config.FormulaManifest {
	return &config.FormulaManifest{
		Name:        "WORD_COUNT",
		Category:    "Text & String",
		Description: "counts the words in a column",
		Params: []*config.ParamSpec{
			{Name: "column", Type: config.ParamSingleSel, Label: "Column", Required: true},
		},
		IsActive: true,
	}
}

func TestGenerateSkeleton(t *testing.T) {
	src, err := Generate(sampleManifest())
	require.NoError(t, err)

	assert.Contains(t, src, "wordCountExecutor")
	assert.Contains(t, src, `"word_count_result"`)
	assert.Contains(t, src, `params.Has("column")`)

	// The skeleton must itself be valid Go.
	fset := token.NewFileSet()
	_, err = parser.ParseFile(fset, "word_count.go", src, parser.AllErrors)
	assert.NoError(t, err)
}

func TestGenerateRejectsEmptyManifest(t *testing.T) {
	_, err := Generate(nil)
	assert.Error(t, err)
	_, err = Generate(&config.FormulaManifest{})
	assert.Error(t, err)
}

func TestManagerSaveGetListDelete(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	src, err := Generate(sampleManifest())
	require.NoError(t, err)

	require.NoError(t, m.Save(ctx, "WORD_COUNT", src))

	got, err := m.Get("WORD_COUNT")
	require.NoError(t, err)
	assert.Equal(t, src, got)

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"WORD_COUNT"}, names)

	require.NoError(t, m.Delete("WORD_COUNT"))
	_, err = m.Get("WORD_COUNT")
	assert.True(t, errors.Is(err, formula.ErrNotFound))
	assert.True(t, errors.Is(m.Delete("WORD_COUNT"), formula.ErrNotFound))
}

func TestManagerSaveReplaces(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.Save(ctx, "THING", "package custom\n"))
	require.NoError(t, m.Save(ctx, "THING", "package custom\n\nvar v = 2\n"))

	got, err := m.Get("THING")
	require.NoError(t, err)
	assert.Contains(t, got, "var v = 2")
}

func TestManagerRejectsBadSyntax(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	err = m.Save(ctx, "BROKEN", "package custom\nfunc {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax check failed")

	_, err = m.Get("BROKEN")
	assert.Error(t, err, "a rejected save must not leave a file behind")
}

func TestManagerRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "lower", "../escape", "HAS SPACE"} {
		assert.Error(t, m.Save(ctx, name, "package custom\n"), name)
	}
}
