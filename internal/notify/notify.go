package notify

import (
	"context"

	"github.com/justinloyola/alma/internal/model"
)

// Notifier is told about lead lifecycle events. Implementations must be
// safe for concurrent use; send failures are reported to the caller but
// never abort the originating request.
type Notifier interface {
	LeadCreated(ctx context.Context, lead *model.Lead) error
}

// Nop discards every notification. Used when no SMTP host is configured.
type Nop struct{}

func (Nop) LeadCreated(context.Context, *model.Lead) error { return nil }
