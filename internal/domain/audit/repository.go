package audit

import "context"

// TrailRepository is append-only by construction: there is no update or
// delete operation.
type TrailRepository interface {
	Append(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
