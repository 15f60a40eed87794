package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/devcamper/internal/pkg/logger"
	"github.com/yigit/devcamper/internal/pkg/query"
)

// ResultsRepository runs advanced-results queries for any resource
type ResultsRepository struct {
	db DBTX
}

// NewResultsRepository creates a new ResultsRepository
func NewResultsRepository(db DBTX) *ResultsRepository {
	return &ResultsRepository{db: db}
}

var _ query.Finder = (*ResultsRepository)(nil)

// Find returns one page of rows matching d and the total number of matching rows
func (r *ResultsRepository) Find(ctx context.Context, d *query.Descriptor) ([]map[string]interface{}, int64, error) {
	countSQL, countArgs, err := d.CountBuilder().ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("resource", d.Resource.Name).Msg("Error counting results")
		return nil, 0, fmt.Errorf("error counting %s: %w", d.Resource.Name, err)
	}

	sql, args, err := d.SelectBuilder().ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("resource", d.Resource.Name).Msg("Error querying results")
		return nil, 0, fmt.Errorf("error querying %s: %w", d.Resource.Name, err)
	}

	data, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, fmt.Errorf("error collecting %s: %w", d.Resource.Name, err)
	}
	if data == nil {
		data = []map[string]interface{}{}
	}

	return data, total, nil
}
