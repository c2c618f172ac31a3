package audit

import "context"

// Store persists decision records.
type Store interface {
	Append(ctx context.Context, decision Decision) error
}
