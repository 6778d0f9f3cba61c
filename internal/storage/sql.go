package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SQLStore is a KV backed by a single PostgreSQL table keyed by
// (namespace, key).
type SQLStore struct {
	DB    *sqlx.DB
	table string
}

func NewSQLStore(db *sqlx.DB, table string) *SQLStore {
	return &SQLStore{
		DB:    db,
		table: table,
	}
}

func (s *SQLStore) Table() string {
	return s.table
}

// Migrate creates the backing table when it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf("create table if not exists %q (namespace text not null, key text not null, value bytea not null, updated_at timestamptz not null default now(), primary key (namespace, key));", s.table),
		fmt.Sprintf("create index if not exists %q on %q (namespace, updated_at);", s.table+"_namespace_updated_at_idx", s.table),
	}

	for _, statement := range statements {
		if _, err := s.DB.ExecContext(ctx, statement); err != nil {
			return &StorageError{Op: "migrate", Namespace: s.table, Err: errors.Wrap(err, "applying schema")}
		}
	}

	logrus.WithField("table", s.table).Info("storage schema is up to date")

	return nil
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query := s.DB.Rebind(fmt.Sprintf("select value from %q where namespace = ? and key = ?", s.table))

	var value []byte
	if err := s.DB.GetContext(ctx, &value, query, namespace, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, s.wrap("get", namespace, key, err)
	}

	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	query := s.DB.Rebind(fmt.Sprintf("insert into %q (namespace, key, value, updated_at) values (?, ?, ?, ?) on conflict (namespace, key) do update set value = excluded.value, updated_at = excluded.updated_at", s.table))

	if _, err := s.DB.ExecContext(ctx, query, namespace, key, value, time.Now().UTC()); err != nil {
		return s.wrap("set", namespace, key, err)
	}

	return nil
}

func (s *SQLStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	query := s.DB.Rebind(fmt.Sprintf("select key, value from %q where namespace = ? order by key", s.table))

	entries := []Entry{}
	if err := s.DB.SelectContext(ctx, &entries, query, namespace); err != nil {
		return nil, s.wrap("list", namespace, "", err)
	}

	return entries, nil
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) error {
	query := s.DB.Rebind(fmt.Sprintf("delete from %q where namespace = ? and key = ?", s.table))

	result, err := s.DB.ExecContext(ctx, query, namespace, key)
	if err != nil {
		return s.wrap("delete", namespace, key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return s.wrap("delete", namespace, key, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return s.wrap("ping", "", "", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) wrap(op, namespace, key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		err = errors.Wrapf(err, "table %q does not exist, run the migrate command", s.table)
	}

	return &StorageError{
		Op:        op,
		Namespace: namespace,
		Key:       key,
		Err:       err,
	}
}
