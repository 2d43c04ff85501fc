package leads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink mirrors lead rows into the relational database.
type PostgresSink struct {
	pool execer
}

// NewPostgresSink initializes a sink backed by pgxpool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresSink{pool: pool}
}

func newPostgresSinkWithExec(exec execer) *PostgresSink {
	if exec == nil {
		panic("leads: exec required")
	}
	return &PostgresSink{pool: exec}
}

// Append inserts a new row.
func (s *PostgresSink) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO leads (name, phone, intent, score, message, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.pool.Exec(ctx, query,
		record.Name,
		record.Phone,
		record.Intent.String(),
		string(record.Score),
		record.Message,
		record.Time,
	); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}
