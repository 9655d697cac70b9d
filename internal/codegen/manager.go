package codegen

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/formula"
)

// validName keeps stored executor names to the same shape builtin formula
// names have, which also keeps file paths trivially safe.
var validName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

const defaultCheckTimeout = 5 * time.Second

// Manager stores custom executor source files in one directory, gated by a
// bounded syntax check. It does not compile or load anything; wiring a
// stored executor into the registry is a build-time step.
type Manager struct {
	dir          string
	checkTimeout time.Duration
}

// NewManager returns a manager rooted at dir, creating it if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create code dir: %w", err)
	}
	return &Manager{dir: dir, checkTimeout: defaultCheckTimeout}, nil
}

// Save syntax-checks the source and writes it under the formula's name.
// Saving over an existing name replaces it, matching the registry's
// replace-on-reregister semantics.
func (m *Manager) Save(ctx context.Context, name, src string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid executor name %q", name)
	}
	if err := m.checkSyntax(ctx, name, src); err != nil {
		return err
	}
	path := m.path(name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write executor source: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Saved executor source.", "name", name, "path", path)
	return nil
}

// Get returns the stored source for a name.
func (m *Manager) Get(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("invalid executor name %q", name)
	}
	b, err := os.ReadFile(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &formula.NotFoundError{Formula: name}
		}
		return "", fmt.Errorf("read executor source: %w", err)
	}
	return string(b), nil
}

// List returns the stored executor names, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("list executors: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".go" {
			continue
		}
		names = append(names, strings.ToUpper(strings.TrimSuffix(e.Name(), ".go")))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored executor.
func (m *Manager) Delete(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid executor name %q", name)
	}
	if err := os.Remove(m.path(name)); err != nil {
		if os.IsNotExist(err) {
			return &formula.NotFoundError{Formula: name}
		}
		return fmt.Errorf("delete executor source: %w", err)
	}
	return nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, strings.ToLower(name)+".go")
}

// checkSyntax parses the source on a worker goroutine and bounds the wait.
// Pathological inputs fail as a TimeoutError instead of hanging a save.
func (m *Manager) checkSyntax(ctx context.Context, name, src string) error {
	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		fset := token.NewFileSet()
		_, err := parser.ParseFile(fset, strings.ToLower(name)+".go", src, parser.AllErrors)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("syntax check failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return &formula.TimeoutError{Op: "syntax check of " + name, Timeout: m.checkTimeout}
	}
}
