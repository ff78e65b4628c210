package inkwell

import "context"

// BeforeCreate is called before inserting a new document, after defaults and
// timestamps are applied and before validation.
type BeforeCreate interface {
	BeforeCreate(ctx context.Context) error
}
