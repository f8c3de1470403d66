package database

import "context"

// Transactor runs fn inside one store transaction. Repository calls made with the
// context handed to fn join that transaction; a non-nil error from fn rolls it back.
// Calling WithTransaction with a context that already carries a transaction joins it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
