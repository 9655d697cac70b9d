package formula

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/tabular"
)

type noopExecutor struct{ marker string }

func (noopExecutor) ValidateParams(Params) error { return nil }
func (noopExecutor) OutputColumns(Params) []string {
	return []string{"noop_result"}
}
func (noopExecutor) Execute(rows []tabular.Row, _ Params) ([]tabular.Row, error) {
	return rows, nil
}

func manifest(name string) *config.FormulaManifest {
	return &config.FormulaManifest{
		Name:        name,
		Category:    CategoryText,
		Description: "test formula",
		IsActive:    true,
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{}))

	got, err := reg.Lookup("NOOP")
	require.NoError(t, err)
	assert.Equal(t, "NOOP", got.Manifest.Name)
}

func TestRegistryReplaceOnReregister(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{marker: "first"}))
	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{marker: "second"}))

	got, err := reg.Lookup("NOOP")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Exec.(noopExecutor).marker)
	assert.Len(t, reg.List(), 1)
}

func TestRegistryLookupFailures(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	t.Run("unknown formula", func(t *testing.T) {
		_, err := reg.Lookup("MISSING")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("disabled formula", func(t *testing.T) {
		require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{}))
		require.NoError(t, reg.SetActive("NOOP", false))

		_, err := reg.Lookup("NOOP")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.True(t, nf.Disabled)
	})

	t.Run("disabled formula still reachable via Get", func(t *testing.T) {
		_, ok := reg.Get("NOOP")
		assert.True(t, ok)
	})
}

func TestRegistryUpdateManifest(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{marker: "keep"}))

	updated := manifest("NOOP")
	updated.Description = "edited"
	require.NoError(t, reg.UpdateManifest(updated))

	got, err := reg.Lookup("NOOP")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Manifest.Description)
	assert.Equal(t, "keep", got.Exec.(noopExecutor).marker, "executor must survive a manifest update")

	err = reg.UpdateManifest(manifest("MISSING"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistryRemove(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{}))

	require.NoError(t, reg.Remove("NOOP"))
	_, err := reg.Lookup("NOOP")
	assert.Error(t, err)
	assert.True(t, errors.Is(reg.Remove("NOOP"), ErrNotFound))
}

func TestRegistryListSorted(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	for _, name := range []string{"ZULU", "ALPHA", "MIKE"} {
		require.NoError(t, reg.Register(ctx, manifest(name), noopExecutor{}))
	}

	var names []string
	for _, m := range reg.List() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"ALPHA", "MIKE", "ZULU"}, names)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	require.NoError(t, reg.Register(ctx, manifest("NOOP"), noopExecutor{}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.Register(ctx, manifest("NOOP"), noopExecutor{})
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.Lookup("NOOP")
		}()
	}
	wg.Wait()

	_, err := reg.Lookup("NOOP")
	assert.NoError(t, err)
}

func TestRegisterBuiltins(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltins(ctx, reg))

	for _, name := range []string{
		"UPPER", "LOWER", "PROPER_CASE", "TRIM", "TEXT_LENGTH", "TEXT_JOIN",
		"ADD", "SUBTRACT", "MULTIPLY", "DIVIDE",
		"SUM", "COUNT", "UNIQUE_COUNT", "SUMIF", "COUNTIF",
		"IF", "PIVOT", "DEPIVOT", "REMOVE_DUPLICATES", "FILLNA",
	} {
		_, err := reg.Lookup(name)
		assert.NoError(t, err, name)
	}
	assert.Len(t, reg.List(), 20)
}

func TestRegisteredValidate(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltins(ctx, reg))

	t.Run("missing required parameter", func(t *testing.T) {
		upper, err := reg.Lookup("UPPER")
		require.NoError(t, err)
		err = upper.Validate(Params{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("defaults satisfy required parameters", func(t *testing.T) {
		join, err := reg.Lookup("TEXT_JOIN")
		require.NoError(t, err)
		params := join.ApplyDefaults(Params{
			"text_columns": listOf("a", "b"),
		})
		assert.NoError(t, join.Validate(params))
		assert.True(t, params.Has("delimiter"))
		assert.True(t, params.Has("ignore_empty"))
	})
}
