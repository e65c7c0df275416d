package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
	"github.com/candylab/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = "id, name, category, price, quantity, description, image_url, created_at, updated_at"

// SweetRepo implements the catalog store port over PostgreSQL. Works with a
// pool or a tx (anything satisfying Querier).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository builds the persistence adapter for sweets.
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

// Create persists a new sweet.
func (r *SweetRepo) Create(sweet *entity.Sweet) error {
	query := `
		INSERT INTO sweets (id, name, category, price, quantity, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity,
		sweet.Description, sweet.ImageURL, sweet.CreatedAt, sweet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

// GetByID fetches a sweet by id. (nil, nil) when absent.
func (r *SweetRepo) GetByID(id string) (*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`
	var s entity.Sweet
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
		&s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return &s, nil
}

// List returns every sweet, newest first.
func (r *SweetRepo) List() ([]*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at DESC`
	return r.queryMany(query)
}

// Search returns sweets matching the filter, newest first. The filter's
// clauses are ANDed; substring matches are case-insensitive (ILIKE), price
// bounds inclusive.
func (r *SweetRepo) Search(filter repository.SweetFilter) ([]*entity.Sweet, error) {
	if filter.Empty() {
		return r.List()
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Name != "" {
		conds = append(conds, `name ILIKE '%' || `+arg(filter.Name)+` || '%'`)
	}
	if filter.Category != "" {
		conds = append(conds, `category ILIKE '%' || `+arg(filter.Category)+` || '%'`)
	}
	if filter.MinPrice != nil {
		conds = append(conds, `price >= `+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, `price <= `+arg(*filter.MaxPrice))
	}

	query := `SELECT ` + sweetColumns + ` FROM sweets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	return r.queryMany(query, args...)
}

// Update writes only the patch's supplied columns, in a single UPDATE. A
// quantity mutation committed by a concurrent purchase or restock survives a
// patch that does not carry quantity.
func (r *SweetRepo) Update(id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	args := []any{id}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sets := []string{"updated_at = now()"}
	if patch.Name != nil {
		sets = append(sets, "name = "+arg(*patch.Name))
	}
	if patch.Category != nil {
		sets = append(sets, "category = "+arg(*patch.Category))
	}
	if patch.Price != nil {
		sets = append(sets, "price = "+arg(*patch.Price))
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = "+arg(*patch.Quantity))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+arg(*patch.Description))
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url = "+arg(*patch.ImageURL))
	}

	query := `UPDATE sweets SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + sweetColumns
	var s entity.Sweet
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
		&s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return &s, nil
}

// Delete removes a sweet permanently (no soft delete).
func (r *SweetRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementQuantity is the purchase primitive: the quantity check and the
// decrement happen in one UPDATE, so concurrent purchases can never drive
// stock below zero. No row updated means either the record is gone or the
// stock was short; a follow-up existence check picks the right error.
func (r *SweetRepo) DecrementQuantity(id string, n int) (*entity.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + sweetColumns
	sweet, err := r.scanUpdated(query, id, n)
	if err == nil {
		return sweet, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("purchase sweet: %w", err)
	}

	var exists bool
	checkErr := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists)
	if checkErr != nil {
		return nil, fmt.Errorf("purchase sweet: %w", checkErr)
	}
	if exists {
		return nil, domain.ErrInsufficientStock
	}
	return nil, domain.ErrNotFound
}

// IncrementQuantity is the restock primitive: one unconditional UPDATE, so
// concurrent restocks are never lost.
func (r *SweetRepo) IncrementQuantity(id string, n int) (*entity.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + sweetColumns
	sweet, err := r.scanUpdated(query, id, n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("restock sweet: %w", err)
	}
	return sweet, nil
}

func (r *SweetRepo) scanUpdated(query, id string, n int) (*entity.Sweet, error) {
	var s entity.Sweet
	err := r.q.QueryRow(context.Background(), query, id, n).Scan(
		&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
		&s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SweetRepo) queryMany(query string, args ...any) ([]*entity.Sweet, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sweet
	for rows.Next() {
		var s entity.Sweet
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
			&s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
