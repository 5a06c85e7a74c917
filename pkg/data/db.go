package data

import (
	"database/sql"
	"embed"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	// Database drivers: embedded sqlite for local use, postgres for shared
	// calibration datasets.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default sqlite file under the app home dir.
	DataFileName = "data.db"

	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

var (
	//go:embed sql/*
	ddl embed.FS

	errStoreNotInitialized = errors.New("store not initialized")
)

// Store is the calibration sample store. The target is selected by the DSN:
// a postgres:// URL opens postgres, anything else is treated as a sqlite
// file path.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects the store and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("data source not specified")
	}

	driver := driverSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = driverPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", dsn)
	}

	s := &Store{db: db, driver: driver}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	b, err := ddl.ReadFile("sql/ddl.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read the schema creation file")
	}
	if _, err := s.db.Exec(string(b)); err != nil {
		return errors.Wrap(err, "failed to create database schema")
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to the $n form postgres expects. Queries in
// this package are written with ? (the sqlite form).
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
