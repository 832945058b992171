// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

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
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed group store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var groupColumns = strings.Join(schema.CoreGroup.Columns(), ", ")

func scanGroup(group *Group) []any {
	return []any{&group.ID, &group.Code, &group.Name, &group.CreatedAt}
}

// # Group Retrieval

/*
List returns a filtered and paginated list of groups.

Description: Code and name are matched with ILIKE and COUNT(*) OVER()
carries the total.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Group, int, error) {
	var queryBuilder strings.Builder
	fmt.Fprintf(&queryBuilder, `SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE`, groupColumns, schema.CoreGroup.Table)

	args := []any{}
	argID := 1

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (code ILIKE $%d OR name ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY code ASC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_groups")
	}
	defer rows.Close()

	groups := make([]*Group, 0)
	var total int
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(append(scanGroup(group), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_group")
		}
		groups = append(groups, group)
	}

	return groups, total, dberr.Wrap(rows.Err(), "list_groups")
}

// FindByID retrieves a single group by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, groupColumns, schema.CoreGroup.Table, schema.CoreGroup.ID)

	group := &Group{}
	err := repository.db.QueryRow(context, query, id).Scan(scanGroup(group)...)
	if err != nil {
		return nil, dberr.NotFound(err, "Group", "get_group_by_id")
	}
	return group, nil
}

// FindByCode retrieves a group by its unique code.
func (repository *PostgresRepository) FindByCode(context context.Context, code string) (*Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, groupColumns, schema.CoreGroup.Table, schema.CoreGroup.Code)

	group := &Group{}
	err := repository.db.QueryRow(context, query, code).Scan(scanGroup(group)...)
	if err != nil {
		return nil, dberr.NotFound(err, "Group", "get_group_by_code")
	}
	return group, nil
}

// FindByCodes retrieves the groups named by codes with one ANY($1) query.
func (repository *PostgresRepository) FindByCodes(context context.Context, codes []string) ([]*Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		groupColumns, schema.CoreGroup.Table, schema.CoreGroup.Code, schema.CoreGroup.Code)

	rows, err := repository.db.Query(context, query, codes)
	if err != nil {
		return nil, dberr.Wrap(err, "find_groups_by_code")
	}
	defer rows.Close()

	groups := make([]*Group, 0, len(codes))
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(scanGroup(group)...); err != nil {
			return nil, dberr.Wrap(err, "scan_group")
		}
		groups = append(groups, group)
	}

	return groups, dberr.Wrap(rows.Err(), "find_groups_by_code")
}

// # Group Mutation

// Create inserts a new group record.
func (repository *PostgresRepository) Create(context context.Context, group *Group) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, NOW()) RETURNING %s`,
		schema.CoreGroup.Table, groupColumns, schema.CoreGroup.CreatedAt)
	err := repository.db.QueryRow(context, query, group.ID, group.Code, group.Name).Scan(&group.CreatedAt)
	return dberr.Wrap(err, "create_group")
}

// # Membership Implementation

// ListMembers retrieves the roster joined with account usernames.
func (repository *PostgresRepository) ListMembers(context context.Context, groupID string) ([]*Member, error) {
	const query = `
		SELECT m.groupid, m.userid, a.username, m.joinedat
		FROM core.groupmember m
		JOIN users.account a ON a.id = m.userid
		WHERE m.groupid = $1
		ORDER BY a.username ASC
	`

	rows, err := repository.db.Query(context, query, groupID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_members")
	}
	defer rows.Close()

	members := make([]*Member, 0)
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Username, &member.JoinedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_group_member")
		}
		members = append(members, member)
	}

	return members, dberr.Wrap(rows.Err(), "list_group_members")
}

// AddMember inserts the membership row, ignoring an existing one.
func (repository *PostgresRepository) AddMember(context context.Context, groupID, userID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, NOW()) ON CONFLICT (%s, %s) DO NOTHING`,
		schema.CoreGroupMember.Table, strings.Join(schema.CoreGroupMember.Columns(), ", "),
		schema.CoreGroupMember.GroupID, schema.CoreGroupMember.UserID)
	_, err := repository.db.Exec(context, query, groupID, userID)
	return dberr.Wrap(err, "add_group_member")
}

// RemoveMember deletes the membership row.
func (repository *PostgresRepository) RemoveMember(context context.Context, groupID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreGroupMember.Table, schema.CoreGroupMember.GroupID, schema.CoreGroupMember.UserID)

	tag, err := repository.db.Exec(context, query, groupID, userID)
	if err != nil {
		return dberr.Wrap(err, "remove_group_member")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Membership")
	}
	return nil
}

// MemberCodes returns the user's group codes.
func (repository *PostgresRepository) MemberCodes(context context.Context, userID string) ([]string, error) {
	const query = `
		SELECT g.code
		FROM core.groupmember m
		JOIN core.permissiongroup g ON g.id = m.groupid
		WHERE m.userid = $1
		ORDER BY g.code ASC
	`

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_member_codes")
	}
	defer rows.Close()

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, dberr.Wrap(err, "scan_member_code")
		}
		codes = append(codes, code)
	}

	return codes, dberr.Wrap(rows.Err(), "list_member_codes")
}
