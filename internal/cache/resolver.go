package cache

import "context"

// Resolver is the two-variant sum type spec.md section 9's "resolver
// call-spec" describes: either a bare function, or a function paired
// with a name used in logging and metrics labels. Resolve accepts either
// via the Resolver interface, implemented by both variants below.
type Resolver interface {
	resolve(ctx context.Context) (any, error)
	name() string
}

// FuncResolver is an anonymous resolver; its name defaults to "anonymous".
type FuncResolver func(ctx context.Context) (any, error)

func (f FuncResolver) resolve(ctx context.Context) (any, error) { return f(ctx) }
func (f FuncResolver) name() string                              { return "anonymous" }

// NamedResolver pairs a resolver function with a name for observability.
type NamedResolver struct {
	Name string
	Func func(ctx context.Context) (any, error)
}

func (n NamedResolver) resolve(ctx context.Context) (any, error) { return n.Func(ctx) }
func (n NamedResolver) name() string                              { return n.Name }
