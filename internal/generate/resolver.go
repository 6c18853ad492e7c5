package generate

import "github.com/theirongolddev/codeassist/internal/config"

// ModelResolver lets the caller change the model gen will use. current is
// the session model or the configured default.
type ModelResolver interface {
	ResolveModel(current string, table config.PricingTable) (string, error)
}

// ModelResolverFunc adapts a function to ModelResolver.
type ModelResolverFunc func(current string, table config.PricingTable) (string, error)

// ResolveModel calls f.
func (f ModelResolverFunc) ResolveModel(current string, table config.PricingTable) (string, error) {
	return f(current, table)
}

// KeepModel never changes the model. It is the non-interactive default.
var KeepModel ModelResolver = ModelResolverFunc(func(current string, _ config.PricingTable) (string, error) {
	return current, nil
})
