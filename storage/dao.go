package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zefrenchwan/lineage.git/people"
)

// Dao reads profiles from database. It never writes
type Dao struct {
	// pool to deal with multiple connections
	pool *pgxpool.Pool
	// schema holding the profiles table
	schema string
}

// NewDao builds a new dao to connect a database via its url
func NewDao(ctx context.Context, url string) (Dao, error) {
	var dao Dao
	if pool, errPool := pgxpool.New(ctx, url); errPool != nil {
		return dao, fmt.Errorf("dao creation failed: %s", errPool.Error())
	} else {
		dao.pool = pool
		dao.schema = DEFAULT_SCHEMA
	}

	return dao, nil
}

// Ping checks database is reachable
func (d *Dao) Ping(ctx context.Context) error {
	if d == nil || d.pool == nil {
		return errors.New("nil value")
	}

	return d.pool.Ping(ctx)
}

// LoadProfiles implements people.Loader: it returns the profiles found for ids
func (d *Dao) LoadProfiles(ctx context.Context, ids []int) ([]people.Record, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("nil value")
	} else if len(ids) == 0 {
		return nil, nil
	}

	var rows pgx.Rows
	if r, err := d.pool.Query(ctx, queryForProfiles(d.schema), ids); err != nil {
		return nil, err
	} else {
		rows = r
	}

	defer rows.Close()
	return readProfilesRows(rows)
}

// CountProfiles returns the number of stored profiles
func (d *Dao) CountProfiles(ctx context.Context) (int64, error) {
	if d == nil || d.pool == nil {
		return 0, errors.New("nil value")
	}

	var result int64
	if err := d.pool.QueryRow(ctx, queryForProfilesCount(d.schema)).Scan(&result); err != nil {
		return 0, err
	}

	return result, nil
}

// Close closes the dao and the underlying pool
func (d *Dao) Close() {
	if d != nil && d.pool != nil {
		d.pool.Close()
	}
}
