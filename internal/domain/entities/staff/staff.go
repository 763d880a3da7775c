package staff

import (
	"context"
	"time"

	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
)

type ID int

// Staff is a console operator working in exactly one department.
// Fields aligned for the GC optimal scanning.
type Staff struct {
	CreatedAt  time.Time
	Login      string
	Password   string
	Department entities.Department
	ID         ID
}

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// staffKey is the key for staff.Staff values in Contexts. It is
// unexported; clients use staff.NewContext and staff.FromContext
// instead of using this key directly.
var staffKey key

// NewContext returns a new Context that carries value s.
func NewContext(ctx context.Context, s *Staff) context.Context {
	return context.WithValue(ctx, staffKey, s)
}

// FromContext returns the Staff value stored in ctx, if any.
func FromContext(ctx context.Context) (*Staff, bool) {
	s, ok := ctx.Value(staffKey).(*Staff)
	return s, ok
}
