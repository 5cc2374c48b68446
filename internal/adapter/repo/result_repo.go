package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tribeserver/internal/domain"
)

// Querier is the slice of the pgx surface the repository needs. Both
// *pgxpool.Pool and test stubs satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ResultRepositoryPG implements domain.ResultRepository backed by PostgreSQL.
type ResultRepositoryPG struct {
	db Querier
}

// NewResultRepository creates a new ResultRepositoryPG.
func NewResultRepository(db Querier) *ResultRepositoryPG {
	return &ResultRepositoryPG{db: db}
}

// TribePromptByResult resolves a user result to its tribe and the tribe's
// generation prompt with a single join. A missing result maps to
// domain.ErrResultNotFound; any other failure is wrapped and surfaced as-is.
func (r *ResultRepositoryPG) TribePromptByResult(ctx context.Context, resultID string) (*domain.TribePrompt, error) {
	row := r.db.QueryRow(ctx, `
SELECT t.name, t.image_generation_prompt
FROM user_results ur
JOIN tribes t ON t.id = ur.tribe_id
WHERE ur.id = $1;
`, resultID)

	var tp domain.TribePrompt
	if err := row.Scan(&tp.TribeName, &tp.Prompt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("lookup tribe prompt: %w", err)
	}
	return &tp, nil
}

var _ domain.ResultRepository = (*ResultRepositoryPG)(nil)
