package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/sweet-shop/internal/apperror"
	"github.com/sakif/sweet-shop/internal/model"
	"github.com/sakif/sweet-shop/internal/repository"
)

// Compile-time check that *DB implements repository.SweetRepository.
var _ repository.SweetRepository = (*DB)(nil)

// selectSweet is the shared read query. Every read joins users so the
// sweet comes back with its creator expanded to {username, email}.
const selectSweet = `
	SELECT s.id, s.name, s.category, s.price, s.quantity, s.description,
	       s.created_by, u.username, u.email, s.created_at, s.updated_at
	FROM sweets s
	JOIN users u ON u.id = s.created_by`

func scanSweet(row interface{ Scan(...any) error }) (*model.Sweet, error) {
	var s model.Sweet
	err := row.Scan(
		&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description,
		&s.CreatedByID, &s.CreatedBy.Username, &s.CreatedBy.Email,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new sweet, generating its ID and timestamps.
//
// The UNIQUE constraint on name is the authoritative duplicate guard: even
// when two concurrent creates race past the service's pre-check, exactly
// one insert wins and the loser gets ErrConflict.
func (db *DB) Create(ctx context.Context, sweet *model.Sweet) error {
	sweet.ID = xid.New().String()

	now := time.Now().UTC()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sweets (id, name, category, price, quantity, description,
		                     created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sweet.ID,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
		sweet.Description,
		sweet.CreatedByID,
		sweet.CreatedAt,
		sweet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("sweet with this name already exists")
		}
		return fmt.Errorf("sqlite: creating sweet: %w", err)
	}

	return nil
}

// GetByID retrieves a single sweet with its creator expanded.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Sweet, error) {
	row := db.conn.QueryRowContext(ctx, selectSweet+` WHERE s.id = ?`, id)

	sweet, err := scanSweet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("sweet", id)
		}
		return nil, fmt.Errorf("sqlite: getting sweet %s: %w", id, err)
	}

	return sweet, nil
}

// GetByName retrieves a sweet by its exact (case-sensitive) name. Used by
// the service layer's uniqueness pre-check on create and rename.
func (db *DB) GetByName(ctx context.Context, name string) (*model.Sweet, error) {
	row := db.conn.QueryRowContext(ctx, selectSweet+` WHERE s.name = ?`, name)

	sweet, err := scanSweet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("sweet", name)
		}
		return nil, fmt.Errorf("sqlite: getting sweet by name %q: %w", name, err)
	}

	return sweet, nil
}

// List returns the sweets matching the filter, all of them for the zero
// filter. Predicates are conjunctive; name is a case-insensitive substring
// match, category exact, price bounds inclusive. Ordering is store-native.
func (db *DB) List(ctx context.Context, filter repository.SweetFilter) ([]model.Sweet, error) {
	query := selectSweet
	var conds []string
	var args []any

	if filter.Name != "" {
		conds = append(conds, `s.name LIKE '%' || ? || '%' COLLATE NOCASE`)
		args = append(args, filter.Name)
	}
	if filter.Category != "" {
		conds = append(conds, `s.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		conds = append(conds, `s.price >= ?`)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conds = append(conds, `s.price <= ?`)
		args = append(args, *filter.MaxPrice)
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sweets: %w", err)
	}
	defer rows.Close()

	sweets := []model.Sweet{}
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning sweet row: %w", err)
		}
		sweets = append(sweets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sweets: %w", err)
	}

	return sweets, nil
}

// Update persists the mutable fields of an already-merged sweet record.
// id, created_by, and created_at never change.
func (db *DB) Update(ctx context.Context, sweet *model.Sweet) error {
	sweet.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE sweets
		 SET name = ?, category = ?, price = ?, quantity = ?, description = ?,
		     updated_at = ?
		 WHERE id = ?`,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
		sweet.Description,
		sweet.UpdatedAt,
		sweet.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("sweet with this name already exists")
		}
		return fmt.Errorf("sqlite: updating sweet %s: %w", sweet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("sweet", sweet.ID)
	}

	return nil
}

// Delete permanently removes a sweet. There is no soft delete.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM sweets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting sweet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("sweet", id)
	}

	return nil
}

// DecrementStock performs the purchase decrement as a single conditional
// UPDATE guarded by quantity >= qty.
//
// The guard is what makes concurrent purchases safe: the read-check-write
// sequence happens inside one statement, so two simultaneous purchases can
// never jointly drive the quantity negative and no decrement is lost. When
// the guard fails we look the row up once more only to decide between
// NotFound and InsufficientStock; that second read influences the error
// payload, never the stock arithmetic.
func (db *DB) DecrementStock(ctx context.Context, id string, qty int) (*model.Sweet, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE sweets
		 SET quantity = quantity - ?, updated_at = ?
		 WHERE id = ? AND quantity >= ?`,
		qty, time.Now().UTC(), id, qty,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: decrementing stock for %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var available int
		err := db.conn.QueryRowContext(ctx,
			`SELECT quantity FROM sweets WHERE id = ?`, id).Scan(&available)
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("sweet", id)
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite: checking stock for %s: %w", id, err)
		}
		return nil, apperror.InsufficientStock(available, qty)
	}

	return db.GetByID(ctx, id)
}

// IncrementStock adds qty to the item's quantity in a single statement.
func (db *DB) IncrementStock(ctx context.Context, id string, qty int) (*model.Sweet, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE sweets
		 SET quantity = quantity + ?, updated_at = ?
		 WHERE id = ?`,
		qty, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: incrementing stock for %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("sweet", id)
	}

	return db.GetByID(ctx, id)
}
