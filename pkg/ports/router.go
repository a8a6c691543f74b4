package ports

import "github.com/aretw0/threshold/pkg/domain"

// ModuleRouter partitions modules into global and namespace-matched sets.
// Implementations must be pure: the same namespace always yields the same modules.
type ModuleRouter interface {
	Resolve(namespace string) domain.Resolution
}
