package ports

import (
	"context"

	"github.com/homiin/portal/internal/core/domain"
)

// ActivityService processes session activity events taken off the dispatcher.
type ActivityService interface {
	Process(ctx context.Context, event domain.SessionEvent) error
}
