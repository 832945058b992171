// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stager/internal/platform/database/schema"
	"github.com/taibuivan/stager/internal/platform/dberr"
)

// PostgresLinkRepository implements [LinkRepository] over core.datasetfile.
type PostgresLinkRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkRepository constructs the link lookup.
func NewPostgresLinkRepository(pool *pgxpool.Pool) *PostgresLinkRepository {
	return &PostgresLinkRepository{pool: pool}
}

// LinkedPaths returns which of paths appear in core.datasetfile.
func (repository *PostgresLinkRepository) LinkedPaths(context context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`,
		schema.CoreDatasetFile.Path, schema.CoreDatasetFile.Table, schema.CoreDatasetFile.Path)

	rows, err := repository.pool.Query(context, query, paths)
	if err != nil {
		return nil, dberr.Wrap(err, "list_linked_paths")
	}
	defer rows.Close()

	linked := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, dberr.Wrap(err, "scan_linked_path")
		}
		linked = append(linked, path)
	}

	return linked, dberr.Wrap(rows.Err(), "list_linked_paths")
}
