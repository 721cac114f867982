package movie

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=movie

type Repository interface {
	Create(ctx context.Context, m *Movie) error
	GetByID(ctx context.Context, id string) (Movie, error)
	Update(ctx context.Context, m *Movie) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) ([]Movie, int, error)
}
