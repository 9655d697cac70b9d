package formula

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/value"
)

// Registered pairs a formula's manifest with its compiled executor.
type Registered struct {
	Manifest *config.FormulaManifest
	Exec     Executor
}

// Validate runs the manifest-driven structural checks (required presence,
// type shape, option membership, numeric bounds) and then the executor's
// own parameter validation.
func (r *Registered) Validate(params Params) error {
	for _, spec := range r.Manifest.Params {
		v, ok := params.Param(spec.Name)
		if !ok {
			if spec.Required && spec.Default == nil {
				return missingParam(r.Manifest.Name, spec.Name)
			}
			continue
		}
		switch spec.Type {
		case config.ParamNumber:
			s := value.AsString(v)
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return &ValidationError{Formula: r.Manifest.Name, Param: spec.Name,
					Reason: fmt.Sprintf("expected a number, got %q", s)}
			}
			if val := spec.Validation; val != nil {
				if val.Min != nil && f < *val.Min {
					return &ValidationError{Formula: r.Manifest.Name, Param: spec.Name,
						Reason: fmt.Sprintf("%v is below the minimum %v", f, *val.Min)}
				}
				if val.Max != nil && f > *val.Max {
					return &ValidationError{Formula: r.Manifest.Name, Param: spec.Name,
						Reason: fmt.Sprintf("%v is above the maximum %v", f, *val.Max)}
				}
			}
		case config.ParamText:
			if val := spec.Validation; val != nil && val.Pattern != "" {
				re, err := regexp.Compile(val.Pattern)
				if err == nil && !re.MatchString(value.AsString(v)) {
					return &ValidationError{Formula: r.Manifest.Name, Param: spec.Name,
						Reason: fmt.Sprintf("%q does not match pattern %q", value.AsString(v), val.Pattern)}
				}
			}
		case config.ParamSingleSel:
			if len(spec.Options) > 0 && !containsString(spec.Options, value.AsString(v)) {
				return &ValidationError{Formula: r.Manifest.Name, Param: spec.Name,
					Reason: fmt.Sprintf("%q is not one of the allowed options", value.AsString(v))}
			}
		}
	}
	return r.Exec.ValidateParams(params)
}

// ApplyDefaults returns params widened with the manifest's default values
// for any parameter the caller left out. The input map is not mutated.
func (r *Registered) ApplyDefaults(params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, spec := range r.Manifest.Params {
		if spec.Default == nil {
			continue
		}
		if _, ok := out.Param(spec.Name); !ok {
			out[spec.Name] = *spec.Default
		}
	}
	return out
}

// Registry maps formula names to their registered executors. It is shared
// process-wide and guarded by an RWMutex: lookups during workflow execution
// are safe against concurrent registration from the configuration flow.
type Registry struct {
	mu       sync.RWMutex
	formulas map[string]*Registered
}

// NewRegistry creates an empty registry. It is constructor-injected
// everywhere rather than living as a package-level singleton.
func NewRegistry() *Registry {
	return &Registry{formulas: make(map[string]*Registered)}
}

// Register adds or replaces a formula. Registration is idempotent by name:
// re-registering swaps in the new executor, which is how live code updates
// reach a running process.
func (r *Registry) Register(ctx context.Context, manifest *config.FormulaManifest, exec Executor) error {
	if err := validateManifest(manifest); err != nil {
		return err
	}
	if exec == nil {
		return fmt.Errorf("formula %q: nil executor", manifest.Name)
	}
	r.mu.Lock()
	_, replaced := r.formulas[manifest.Name]
	r.formulas[manifest.Name] = &Registered{Manifest: manifest, Exec: exec}
	r.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Registered formula.", "name", manifest.Name, "replaced", replaced)
	return nil
}

// Lookup returns the executor for an active formula. Unknown and disabled
// names both fail with a NotFoundError, which the engine surfaces as a
// per-step failure rather than a fatal abort.
func (r *Registry) Lookup(name string) (*Registered, error) {
	r.mu.RLock()
	reg, ok := r.formulas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Formula: name}
	}
	if !reg.Manifest.IsActive {
		return nil, &NotFoundError{Formula: name, Disabled: true}
	}
	return reg, nil
}

// Get returns a formula regardless of its active flag. The configuration
// flow uses this to edit disabled formulas.
func (r *Registry) Get(name string) (*Registered, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.formulas[name]
	return reg, ok
}

// List returns every registered manifest, sorted by name.
func (r *Registry) List() []*config.FormulaManifest {
	return r.list(false)
}

// ListActive returns only the manifests whose formulas are enabled.
func (r *Registry) ListActive() []*config.FormulaManifest {
	return r.list(true)
}

func (r *Registry) list(activeOnly bool) []*config.FormulaManifest {
	r.mu.RLock()
	out := make([]*config.FormulaManifest, 0, len(r.formulas))
	for _, reg := range r.formulas {
		if activeOnly && !reg.Manifest.IsActive {
			continue
		}
		out = append(out, reg.Manifest)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UpdateManifest replaces the manifest of an already-registered formula,
// keeping its executor. This is how edited display configuration and
// parameter schemas reach the engine without touching execution logic.
func (r *Registry) UpdateManifest(m *config.FormulaManifest) error {
	if err := validateManifest(m); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.formulas[m.Name]
	if !ok {
		return &NotFoundError{Formula: m.Name}
	}
	reg.Manifest = m
	return nil
}

// SetActive enables or disables a formula by name.
func (r *Registry) SetActive(name string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.formulas[name]
	if !ok {
		return &NotFoundError{Formula: name}
	}
	reg.Manifest.IsActive = active
	return nil
}

// Remove deletes a formula entirely.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formulas[name]; !ok {
		return &NotFoundError{Formula: name}
	}
	delete(r.formulas, name)
	return nil
}

func validateManifest(m *config.FormulaManifest) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("formula name cannot be empty")
	}
	if m.Category == "" {
		return fmt.Errorf("formula %q: category cannot be empty", m.Name)
	}
	if m.Description == "" {
		return fmt.Errorf("formula %q: description cannot be empty", m.Name)
	}
	for _, p := range m.Params {
		if p.Name == "" {
			return fmt.Errorf("formula %q: parameter name cannot be empty", m.Name)
		}
		if p.Label == "" {
			return fmt.Errorf("formula %q: parameter %q: label cannot be empty", m.Name, p.Name)
		}
		if !config.ValidParamType(p.Type) {
			return fmt.Errorf("formula %q: parameter %q: invalid type %q", m.Name, p.Name, p.Type)
		}
	}
	return nil
}

func containsString(s []string, want string) bool {
	for _, v := range s {
		if v == want {
			return true
		}
	}
	return false
}
