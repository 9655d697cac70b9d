package config

import "context"

// Loader turns configuration files into the agnostic model. The concrete
// implementation lives in the hcl package; tests may substitute their own.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
