package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// Mapper describes how an entity type maps onto its table. It is the only
// per-entity code a flat entity needs; the Repository and Service below
// implement the whole create/list/get/update/delete contract from it.
type Mapper[T any] struct {
	// Table is the table name, e.g. "colors".
	Table string

	// Resource is the singular resource name used in errors and logs, e.g. "color".
	Resource string

	// Columns lists the mutable columns, excluding id, created_at, updated_at.
	Columns []string

	// Values returns the entity's values in Columns order.
	Values func(e *T) []any

	// Fields returns scan destinations in select order:
	// id, Columns..., created_at, updated_at.
	Fields func(e *T) []any

	// ID returns the entity's id.
	ID func(e *T) int64

	// SetID stores a generated id on the entity.
	SetID func(e *T, id int64)

	// SetTimestamps stores created_at and updated_at on the entity.
	SetTimestamps func(e *T, createdAt, updatedAt time.Time)
}

// Repository implements the generic persistence contract for a flat entity.
type Repository[T any] struct {
	db database.DBTX
	m  Mapper[T]
}

// NewRepository creates a generic repository from a mapper.
func NewRepository[T any](db database.DBTX, m Mapper[T]) *Repository[T] {
	return &Repository[T]{db: db, m: m}
}

// Create inserts the entity and stores the generated id and timestamps on it.
func (r *Repository[T]) Create(ctx context.Context, e *T) error {
	now := time.Now().UTC()
	r.m.SetTimestamps(e, now, now)

	cols := append(append([]string{}, r.m.Columns...), "created_at", "updated_at")
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.m.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	args := append(r.m.Values(e), now, now)

	ctx, end := database.TraceQuery(ctx, "Create"+r.m.Resource, query)
	var id int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&id)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return alreadyExists(r.m.Resource)
		}
		return fmt.Errorf("insert %s: %w", r.m.Resource, err)
	}

	r.m.SetID(e, id)
	return nil
}

// GetByID retrieves a single entity by id.
func (r *Repository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf(
		"SELECT id, %s, created_at, updated_at FROM %s WHERE id = $1",
		strings.Join(r.m.Columns, ", "), r.m.Table,
	)

	var e T
	ctx, end := database.TraceQuery(ctx, "Get"+r.m.Resource, query)
	err := r.db.QueryRow(ctx, query, id).Scan(r.m.Fields(&e)...)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(r.m.Resource, id)
		}
		return nil, fmt.Errorf("scan %s: %w", r.m.Resource, err)
	}

	return &e, nil
}

// List returns one page of entities ordered by ascending id, with the total count.
func (r *Repository[T]) List(ctx context.Context, limit, offset int) ([]T, int, error) {
	query := fmt.Sprintf(
		"SELECT id, %s, created_at, updated_at, count(*) OVER() AS total_count FROM %s ORDER BY id ASC LIMIT $1 OFFSET $2",
		strings.Join(r.m.Columns, ", "), r.m.Table,
	)

	ctx, end := database.TraceQuery(ctx, "List"+r.m.Resource, query)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list %s: %w", r.m.Resource, err)
	}
	defer rows.Close()

	var (
		items      []T
		totalCount int
	)

	for rows.Next() {
		var e T
		dests := append(r.m.Fields(&e), &totalCount)
		if err := rows.Scan(dests...); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan %s row: %w", r.m.Resource, err)
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate %s rows: %w", r.m.Resource, err)
	}
	end(nil)

	if items == nil {
		items = []T{}
	}

	return items, totalCount, nil
}

// ListBy returns one page of entities matching column = value, ordered by
// ascending id, with the total count. The column is interpolated into the
// statement, so it must be one of the mapper's columns; anything else is
// rejected before a query is built.
func (r *Repository[T]) ListBy(ctx context.Context, column string, value any, limit, offset int) ([]T, int, error) {
	if !slices.Contains(r.m.Columns, column) {
		return nil, 0, fmt.Errorf("list %s: unknown column %q", r.m.Resource, column)
	}

	query := fmt.Sprintf(
		"SELECT id, %s, created_at, updated_at, count(*) OVER() AS total_count FROM %s WHERE %s = $1 ORDER BY id ASC LIMIT $2 OFFSET $3",
		strings.Join(r.m.Columns, ", "), r.m.Table, column,
	)

	ctx, end := database.TraceQuery(ctx, "List"+r.m.Resource, query)
	rows, err := r.db.Query(ctx, query, value, limit, offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list %s: %w", r.m.Resource, err)
	}
	defer rows.Close()

	var (
		items      []T
		totalCount int
	)

	for rows.Next() {
		var e T
		dests := append(r.m.Fields(&e), &totalCount)
		if err := rows.Scan(dests...); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan %s row: %w", r.m.Resource, err)
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate %s rows: %w", r.m.Resource, err)
	}
	end(nil)

	if items == nil {
		items = []T{}
	}

	return items, totalCount, nil
}

// Update persists all mutable columns of the entity.
func (r *Repository[T]) Update(ctx context.Context, e *T) error {
	sets := make([]string, len(r.m.Columns))
	for i, col := range r.m.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	n := len(r.m.Columns)
	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = $%d WHERE id = $%d",
		r.m.Table, strings.Join(sets, ", "), n+1, n+2,
	)

	now := time.Now().UTC()
	args := append(r.m.Values(e), now, r.m.ID(e))

	ctx, end := database.TraceQuery(ctx, "Update"+r.m.Resource, query)
	ct, err := r.db.Exec(ctx, query, args...)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return alreadyExists(r.m.Resource)
		}
		return fmt.Errorf("update %s: %w", r.m.Resource, err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(r.m.Resource, r.m.ID(e))
	}

	return nil
}

// Delete removes the entity by id.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.m.Table)

	ctx, end := database.TraceQuery(ctx, "Delete"+r.m.Resource, query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.m.Resource, err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(r.m.Resource, id)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

func alreadyExists(resource string) error {
	return &apperrors.AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s violates a unique constraint", resource),
		Status:  http.StatusConflict,
		Err:     apperrors.ErrAlreadyExists,
	}
}
