// Package source resolves input references to graph factories.
//
// A reference is either a database URL or a file path:
//
//	sqlite://shop.db                    SQLite database file
//	postgres://user:pw@host/db          PostgreSQL (also postgresql://)
//	mysql://user:pw@tcp(host:3306)/db   MySQL, go-sql-driver DSN after the scheme
//	schema.graphql                      GraphQL SDL (.graphql, .graphqls, .gql)
//	model.yaml                          Model document (see pkg/model)
//
// [Open] returns a [Source]: an [objgraph.Factory] that must be closed when
// no longer needed.
//
//	src, err := source.Open(ctx, "sqlite://shop.db", source.Options{Inverse: true})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	g, err := objgraph.Create(ctx, src)
package source
