package cleanup

import (
	"io"

	"github.com/aretw0/threshold/pkg/domain"
)

// Normalize converts a hook result into a Teardown.
// It returns (nil, true) for nil results and (nil, false) for shapes it does not understand.
// It never panics.
func Normalize(result domain.Cleanup) (domain.Teardown, bool) {
	switch c := result.(type) {
	case nil:
		return nil, true
	case domain.Teardown:
		if c == nil {
			return nil, true
		}
		return c, true
	case func() error:
		if c == nil {
			return nil, true
		}
		return c, true
	case func():
		if c == nil {
			return nil, true
		}
		return func() error {
			c()
			return nil
		}, true
	case domain.ErrDestroyer:
		if isNilPointer(c) {
			return nil, true
		}
		return c.Destroy, true
	case domain.Destroyer:
		if isNilPointer(c) {
			return nil, true
		}
		return func() error {
			c.Destroy()
			return nil
		}, true
	case io.Closer:
		if isNilPointer(c) {
			return nil, true
		}
		return c.Close, true
	default:
		return nil, false
	}
}
