package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/model"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/source/graphql"
	"github.com/matzehuels/objectgraph/pkg/source/sqlschema"
)

// Kind identifies the factory a reference resolves to.
type Kind string

// Reference kinds.
const (
	KindSQL     Kind = "sql"
	KindGraphQL Kind = "graphql"
	KindModel   Kind = "model"
)

// Options configures the factories created by [Open]. Fields that do not
// apply to a reference's kind are ignored.
type Options struct {
	// Package overrides the package assigned to introspected objects.
	Package string
	// Schema selects the database schema for SQL references.
	Schema string
	// Inverse adds inverse relations for foreign keys.
	Inverse bool
	// IncludeRoots keeps GraphQL root operation types.
	IncludeRoots bool
	// Logger receives factory diagnostics.
	Logger *log.Logger
}

// Source is a factory that may hold resources such as a database connection.
type Source interface {
	objgraph.Factory
	io.Closer
}

// Ref is a parsed reference.
type Ref struct {
	Kind    Kind
	Dialect sqlschema.Dialect // KindSQL only
	Target  string            // DSN or file path
}

var schemes = map[string]sqlschema.Dialect{
	"sqlite://":     sqlschema.SQLite,
	"postgres://":   sqlschema.Postgres,
	"postgresql://": sqlschema.Postgres,
	"mysql://":      sqlschema.MySQL,
}

var graphqlExts = []string{".graphql", ".graphqls", ".gql"}

// Parse classifies a reference without opening it.
func Parse(ref string) (Ref, error) {
	if ref == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidInput, "empty source reference")
	}
	for scheme, dialect := range schemes {
		if !strings.HasPrefix(ref, scheme) {
			continue
		}
		target := ref
		if dialect != sqlschema.Postgres {
			target = strings.TrimPrefix(ref, scheme)
		}
		if target == "" {
			return Ref{}, errors.New(errors.ErrCodeInvalidInput, "missing database in %q", ref)
		}
		return Ref{Kind: KindSQL, Dialect: dialect, Target: target}, nil
	}

	ext := strings.ToLower(filepath.Ext(ref))
	for _, e := range graphqlExts {
		if ext == e {
			return Ref{Kind: KindGraphQL, Target: ref}, nil
		}
	}
	if model.IsModelFile(ref) {
		return Ref{Kind: KindModel, Target: ref}, nil
	}
	return Ref{}, errors.New(errors.ErrCodeUnsupported, "cannot determine source type of %q", ref)
}

// WatchPath returns the file backing ref, if any. Database servers have none;
// SQLite databases and schema files do.
func (r Ref) WatchPath() (string, bool) {
	switch {
	case r.Kind == KindSQL && r.Dialect == sqlschema.SQLite:
		path, _, _ := strings.Cut(r.Target, "?")
		path = strings.TrimPrefix(path, "file:")
		return path, path != "" && path != ":memory:"
	case r.Kind == KindGraphQL, r.Kind == KindModel:
		return r.Target, true
	}
	return "", false
}

// Open resolves ref to a factory. SQL connections are verified with a ping.
func Open(ctx context.Context, ref string, opts Options) (Source, error) {
	r, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	return OpenRef(ctx, r, opts)
}

// OpenRef opens an already parsed reference.
func OpenRef(ctx context.Context, r Ref, opts Options) (Source, error) {
	switch r.Kind {
	case KindSQL:
		f, err := sqlschema.Open(r.Dialect, r.Target, sqlschema.Options{
			Schema:  opts.Schema,
			Package: opts.Package,
			Inverse: opts.Inverse,
			Logger:  opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		if err := f.Ping(ctx); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	case KindGraphQL:
		return nopCloser{graphql.FromFiles(graphql.Options{
			Package:      opts.Package,
			IncludeRoots: opts.IncludeRoots,
		}, r.Target)}, nil
	case KindModel:
		return nopCloser{model.FileFactory{Path: r.Target}}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported source kind %q", r.Kind)
}

type nopCloser struct {
	objgraph.Factory
}

func (nopCloser) Close() error { return nil }
