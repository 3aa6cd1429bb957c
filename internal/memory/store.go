package memory

import "context"

// Store is durable key-value persistence across orchestrator runs.
//
// Load returns "" (and no error) when no record exists for the key; callers
// treat that as "no prior failures known". Save overwrites any existing
// record for the key.
type Store interface {
	Load(ctx context.Context, scope, module string) (string, error)
	Save(ctx context.Context, scope, module, content string) error
	Close() error
}
