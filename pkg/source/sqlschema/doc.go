// Package sqlschema builds object graphs from relational database schemas.
//
// # Overview
//
// A [Factory] introspects the tables of one schema and maps them onto the
// object model:
//
//   - Each table becomes an object. Its ID is the table name; its display
//     name is the singular, camel-cased table name ("order_items" becomes
//     "OrderItem").
//   - Each column becomes a field typed with the column's SQL type.
//   - Each foreign key becomes a ONE_TO_ONE relation from the referencing
//     table to the referenced one, labelled with the column name minus a
//     trailing "_id".
//
// With [Options.Inverse] set, every foreign key also yields the inverse
// ONE_TO_MANY relation, labelled with the plural of the referencing table.
// After relation merging the two directions pair up into one bidirectional
// association.
//
// # Dialects
//
//   - sqlite: modernc.org/sqlite, read through sqlite_master and the
//     table-valued pragma functions
//   - postgres: github.com/lib/pq, read through information_schema
//   - mysql: github.com/go-sql-driver/mysql, read through information_schema
//
// # Usage
//
//	f, err := sqlschema.Open(sqlschema.SQLite, "shop.db", sqlschema.Options{Inverse: true})
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	g, err := objgraph.Create(ctx, f)
//
// [New] accepts an already opened *sql.DB instead.
package sqlschema
