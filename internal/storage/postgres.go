package storage

import (
	"context"
	"database/sql"
	"strconv"
	"whoishistory/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// SchemaVersion is the database layout this frontend understands. The
// collector owns the schema; anything else aborts the request.
const SchemaVersion = 1

// Store is the read-only query layer over the collector's database.
type Store struct {
	DB *sqlx.DB
}

func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetSchemaVersion reads db_ver from the param table. A missing row comes
// back as -1, matching the collector's own default.
func (s *Store) GetSchemaVersion(ctx context.Context) (int, error) {
	sqlStr, args, err := psql().Select("value").
		From("param").
		Where(squirrel.Eq{"param": "db_ver"}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var value string
	if err := s.DB.GetContext(ctx, &value, sqlStr, args...); err != nil {
		if err == sql.ErrNoRows {
			return -1, nil
		}
		return 0, err
	}
	return strconv.Atoi(value)
}

// GetDomainNames returns every tracked domain name, sorted.
func (s *Store) GetDomainNames(ctx context.Context) ([]string, error) {
	sqlStr, args, err := psql().Select("domain").
		From("domain").
		OrderBy("domain").
		ToSql()
	if err != nil {
		return nil, err
	}

	var names []string
	if err := s.DB.SelectContext(ctx, &names, sqlStr, args...); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) GetDomain(ctx context.Context, name string) (*model.Domain, error) {
	sqlStr, args, err := psql().Select("*").
		From("domain").
		Where(squirrel.Eq{"domain": name}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryxContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var domain model.Domain
		if err := rows.StructScan(&domain); err != nil {
			return nil, err
		}
		return &domain, nil
	}
	return nil, sql.ErrNoRows
}

// GetStates returns every snapshot for a domain, oldest first.
func (s *Store) GetStates(ctx context.Context, domain string) ([]model.State, error) {
	sqlStr, args, err := psql().Select("*").
		From("state").
		Where(squirrel.Eq{"domain": domain}).
		OrderBy("check_time asc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var states []model.State
	if err := s.DB.SelectContext(ctx, &states, sqlStr, args...); err != nil {
		return nil, err
	}
	return states, nil
}

func (s *Store) GetState(ctx context.Context, id int64) (*model.State, error) {
	sqlStr, args, err := psql().Select("*").
		From("state").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryxContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var state model.State
		if err := rows.StructScan(&state); err != nil {
			return nil, err
		}
		return &state, nil
	}
	return nil, sql.ErrNoRows
}

// GetChanges returns the field transitions recorded against one state, in
// insertion order.
func (s *Store) GetChanges(ctx context.Context, stateID int64) ([]model.Changed, error) {
	sqlStr, args, err := psql().Select("*").
		From("changed").
		Where(squirrel.Eq{"state": stateID}).
		OrderBy("id asc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var changes []model.Changed
	if err := s.DB.SelectContext(ctx, &changes, sqlStr, args...); err != nil {
		return nil, err
	}
	return changes, nil
}
