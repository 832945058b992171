// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/database/schema"
	"github.com/taibuivan/stager/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectColumns = strings.Join([]string{
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
	schema.UserAccount.IsAdmin, schema.UserAccount.IsActive,
	schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
}, ", ")

func scanTargets(user *User) []any {
	return []any{&user.ID, &user.Username, &user.Email, &user.IsAdmin, &user.IsActive, &user.CreatedAt, &user.UpdatedAt}
}

/*
List returns users matching the filter.

Description: Username and email are matched with ILIKE; COUNT(*) OVER()
carries the total.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*User, int, error) {
	var queryBuilder strings.Builder
	fmt.Fprintf(&queryBuilder, `SELECT %s, COUNT(*) OVER() FROM %s WHERE TRUE`, selectColumns, schema.UserAccount.Table)

	args := []any{}
	argID := 1

	if filter.Query != "" {
		fmt.Fprintf(&queryBuilder, " AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.UserAccount.Username, argID, schema.UserAccount.Email, argID)
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.IsActive != nil {
		fmt.Fprintf(&queryBuilder, " AND %s = $%d", schema.UserAccount.IsActive, argID)
		args = append(args, *filter.IsActive)
		argID++
	}

	fmt.Fprintf(&queryBuilder, " ORDER BY %s ASC LIMIT $%d OFFSET $%d", schema.UserAccount.Username, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0)
	var total int
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(append(scanTargets(user), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	return users, total, dberr.Wrap(rows.Err(), "list_users")
}

// FindByID retrieves a single account by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user := &User{}
	if err := repository.pool.QueryRow(context, query, id).Scan(scanTargets(user)...); err != nil {
		return nil, dberr.NotFound(err, "User", "get_user_by_id")
	}
	return user, nil
}

// Create inserts a new account and reads back the timestamps.
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.IsAdmin, schema.UserAccount.IsActive,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.IsAdmin, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

// SetActive updates the active flag.
func (repository *PostgresRepository) SetActive(context context.Context, id string, active bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsActive, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, active)
	if err != nil {
		return dberr.Wrap(err, "set_user_active")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
