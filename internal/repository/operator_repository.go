package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Operator is a person allowed to open a dashboard session over SSH.
type Operator struct {
	ID          int64
	Username    string
	DisplayName string
	PublicKey   string
	KeyType     string
	Fingerprint string
	Locale      string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name is what the dashboard header shows for the operator.
func (o Operator) Name() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.Username
}

const operatorColumns = `id, username, display_name, public_key, key_type, fingerprint,
		        locale, is_active, last_login_at, created_at, updated_at`

type OperatorRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewOperatorRepository(pool PgxPool, tracer trace.Tracer) *OperatorRepository {
	return &OperatorRepository{pool: pool, tracer: tracer}
}

func (r *OperatorRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "operator-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS desk_operators (
			id            BIGSERIAL PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			display_name  TEXT NOT NULL DEFAULT '',
			public_key    TEXT NOT NULL,
			key_type      TEXT NOT NULL,
			fingerprint   TEXT NOT NULL UNIQUE,
			locale        TEXT NOT NULL DEFAULT '',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// FindByFingerprint returns the active operator owning the key, or nil when
// no such operator exists.
func (r *OperatorRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*Operator, error) {
	_, span := r.tracer.Start(ctx, "operator-repo.find-by-fingerprint")
	defer span.End()
	span.SetAttributes(attribute.String("operator.fingerprint", fingerprint))

	row := r.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+`
		 FROM desk_operators
		 WHERE fingerprint = $1 AND is_active = TRUE`,
		fingerprint,
	)

	op, err := scanOperator(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return op, nil
}

func (r *OperatorRepository) UpdateLastLogin(ctx context.Context, operatorID int64) error {
	_, span := r.tracer.Start(ctx, "operator-repo.update-last-login")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE desk_operators SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`,
		operatorID,
	)
	return err
}

func (r *OperatorRepository) ListActive(ctx context.Context) ([]Operator, error) {
	_, span := r.tracer.Start(ctx, "operator-repo.list-active")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+operatorColumns+`
		 FROM desk_operators
		 WHERE is_active = TRUE
		 ORDER BY username ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}
	return ops, rows.Err()
}

func scanOperator(row pgx.Row) (*Operator, error) {
	var o Operator
	var lastLogin *time.Time
	if err := row.Scan(
		&o.ID, &o.Username, &o.DisplayName, &o.PublicKey, &o.KeyType, &o.Fingerprint,
		&o.Locale, &o.IsActive, &lastLogin, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.LastLoginAt = lastLogin
	return &o, nil
}
