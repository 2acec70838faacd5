package port

import (
	"context"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/google/uuid"
)

// JobRepository is the extraction job ledger.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
}
