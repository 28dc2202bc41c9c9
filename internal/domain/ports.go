package domain

import "context"

// RecipeSource provides recipes. The catalog store is the only
// implementation today; the interface keeps the engine and the HTTP layer
// testable without a file on disk.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, filter Filter) ([]Match, error)
	Units(ctx context.Context) ([]string, error)
}

// SessionStore persists checklist sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
}
