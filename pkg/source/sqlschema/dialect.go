package sqlschema

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/matzehuels/objectgraph/pkg/errors"
)

// Dialect names a supported database.
type Dialect string

// Supported dialects. The values are the database/sql driver names.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect parses a dialect name. "postgresql" and "sqlite3" are
// accepted as aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported database dialect %q", s)
}

type column struct {
	name string
	typ  string
}

type foreignKey struct {
	column    string
	refTable  string
	refColumn string
}

// introspector reads catalog information for one dialect.
type introspector interface {
	defaultSchema(dsn string) string
	tables(ctx context.Context, db *sql.DB, schema string) ([]string, error)
	columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error)
	foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error)
}

func introspectorFor(d Dialect) (introspector, error) {
	switch d {
	case SQLite:
		return sqliteIntrospector{}, nil
	case Postgres:
		return postgresIntrospector{}, nil
	case MySQL:
		return mysqlIntrospector{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported database dialect %q", d)
}

type sqliteIntrospector struct{}

func (sqliteIntrospector) defaultSchema(string) string { return "main" }

func (sqliteIntrospector) tables(ctx context.Context, db *sql.DB, _ string) ([]string, error) {
	return queryStrings(ctx, db,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
}

func (sqliteIntrospector) columns(ctx context.Context, db *sql.DB, _, table string) ([]column, error) {
	return queryColumns(ctx, db, `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`, table)
}

func (sqliteIntrospector) foreignKeys(ctx context.Context, db *sql.DB, _, table string) ([]foreignKey, error) {
	rows, err := db.QueryContext(ctx, `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var fk foreignKey
		var to sql.NullString
		if err := rows.Scan(&fk.column, &fk.refTable, &to); err != nil {
			return nil, err
		}
		fk.refColumn = to.String
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

type postgresIntrospector struct{}

func (postgresIntrospector) defaultSchema(string) string { return "public" }

func (postgresIntrospector) tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	return queryStrings(ctx, db,
		`SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`, schema)
}

func (postgresIntrospector) columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error) {
	return queryColumns(ctx, db,
		`SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`, schema, table)
}

func (postgresIntrospector) foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error) {
	return queryForeignKeys(ctx, db,
		`SELECT kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1 AND tc.table_name = $2
		ORDER BY kcu.ordinal_position`, schema, table)
}

type mysqlIntrospector struct{}

// defaultSchema returns the database named in the DSN.
func (mysqlIntrospector) defaultSchema(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return cfg.DBName
}

func (mysqlIntrospector) tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	return queryStrings(ctx, db,
		`SELECT table_name FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
}

func (mysqlIntrospector) columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error) {
	return queryColumns(ctx, db,
		`SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position`, schema, table)
}

func (mysqlIntrospector) foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error) {
	return queryForeignKeys(ctx, db,
		`SELECT column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		  AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position`, schema, table)
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// queryColumns scans (name, type) rows.
func queryColumns(ctx context.Context, db *sql.DB, query string, args ...any) ([]column, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.name, &c.typ); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func queryForeignKeys(ctx context.Context, db *sql.DB, query string, args ...any) ([]foreignKey, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var fk foreignKey
		if err := rows.Scan(&fk.column, &fk.refTable, &fk.refColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
