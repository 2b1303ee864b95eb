package sqlschema

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-openapi/inflect"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Options configures schema introspection.
type Options struct {
	// Schema selects the schema to read. Defaults to "public" for postgres,
	// the DSN's database for mysql, and "main" for sqlite.
	Schema string
	// Package is assigned to every object. Defaults to the schema name.
	Package string
	// Inverse adds a ONE_TO_MANY relation from the referenced table back to
	// the referencing one for every foreign key.
	Inverse bool
	// Exclude lists table names to skip.
	Exclude []string
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Factory introspects a database schema. It implements [objgraph.Factory].
type Factory struct {
	db      *sql.DB
	owned   bool
	dialect Dialect
	schema  string
	opts    Options
	intro   introspector
}

// New creates a factory over an open database handle. The caller keeps
// ownership of db.
func New(db *sql.DB, dialect Dialect, opts Options) (*Factory, error) {
	return newFactory(db, false, dialect, "", opts)
}

// Open opens dsn with the driver for dialect. The returned factory owns the
// connection; call Close when done.
func Open(dialect Dialect, dsn string, opts Options) (*Factory, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s database", dialect)
	}
	f, err := newFactory(db, true, dialect, dsn, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return f, nil
}

func newFactory(db *sql.DB, owned bool, dialect Dialect, dsn string, opts Options) (*Factory, error) {
	intro, err := introspectorFor(dialect)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	schema := opts.Schema
	if schema == "" {
		schema = intro.defaultSchema(dsn)
	}
	return &Factory{db: db, owned: owned, dialect: dialect, schema: schema, opts: opts, intro: intro}, nil
}

// Ping verifies that the database is reachable.
func (f *Factory) Ping(ctx context.Context) error {
	if err := f.db.PingContext(ctx); err != nil {
		return f.wrap(err, "connect")
	}
	return nil
}

// Close releases the connection if the factory opened it.
func (f *Factory) Close() error {
	if f.owned {
		return f.db.Close()
	}
	return nil
}

type table struct {
	name    string
	columns []column
	fks     []foreignKey
}

// Create reads the schema and builds a graph from it.
func (f *Factory) Create(ctx context.Context) (*objgraph.ObjectGraph, error) {
	names, err := f.intro.tables(ctx, f.db, f.schema)
	if err != nil {
		return nil, f.wrap(err, "list tables")
	}

	var tables []table
	for _, name := range names {
		if slices.Contains(f.opts.Exclude, name) {
			continue
		}
		t := table{name: name}
		if t.columns, err = f.intro.columns(ctx, f.db, f.schema, name); err != nil {
			return nil, f.wrap(err, "read columns of %s", name)
		}
		if t.fks, err = f.intro.foreignKeys(ctx, f.db, f.schema, name); err != nil {
			return nil, f.wrap(err, "read foreign keys of %s", name)
		}
		tables = append(tables, t)
	}
	f.opts.Logger.Debug("introspected schema", "dialect", f.dialect, "schema", f.schema, "tables", len(tables))

	return f.build(tables), nil
}

func (f *Factory) build(tables []table) *objgraph.ObjectGraph {
	pkg := f.opts.Package
	if pkg == "" {
		pkg = f.schema
	}

	objects := make([]objgraph.Object, 0, len(tables))
	byTable := make(map[string]objgraph.Object, len(tables))
	for _, t := range tables {
		o := objgraph.Object{ID: t.name, Package: pkg, Name: ObjectName(t.name)}
		for _, c := range t.columns {
			o.Fields = append(o.Fields, objgraph.Field{Name: c.name, ElementType: c.typ})
		}
		objects = append(objects, o)
		byTable[t.name] = o
	}

	var rels []objgraph.Relation
	for _, t := range tables {
		child := byTable[t.name]
		for _, fk := range t.fks {
			parent, ok := byTable[fk.refTable]
			if !ok {
				f.opts.Logger.Warn("skipping foreign key to unknown table",
					"table", t.name, "column", fk.column, "references", fk.refTable)
				continue
			}
			f.opts.Logger.Debug("foreign key", "table", t.name, "column", fk.column,
				"references", fk.refTable+"."+fk.refColumn)
			rels = append(rels, objgraph.Relation{
				Type:  objgraph.OneToOne,
				From:  child,
				To:    parent,
				Label: ReferenceLabel(fk.column),
			})
			if f.opts.Inverse {
				rels = append(rels, objgraph.Relation{
					Type:  objgraph.OneToMany,
					From:  parent,
					To:    child,
					Label: CollectionLabel(t.name),
				})
			}
		}
	}
	return objgraph.New(objects, rels)
}

func (f *Factory) wrap(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidSource, err, "%s: %s", f.dialect, fmt.Sprintf(format, args...))
}

// ObjectName turns a table name into a type name: "order_items" becomes
// "OrderItem".
func ObjectName(tableName string) string {
	return inflect.Camelize(inflect.Singularize(tableName))
}

// ReferenceLabel names a foreign key relation after its column: "owner_id"
// becomes "owner". Columns without the suffix keep their name.
func ReferenceLabel(column string) string {
	lower := strings.ToLower(column)
	if trimmed := strings.TrimSuffix(lower, "_id"); trimmed != lower && trimmed != "" {
		return column[:len(trimmed)]
	}
	return column
}

// CollectionLabel names the inverse of a foreign key after the referencing
// table: "order_items" becomes "orderItems".
func CollectionLabel(tableName string) string {
	return inflect.CamelizeDownFirst(inflect.Pluralize(inflect.Singularize(tableName)))
}
