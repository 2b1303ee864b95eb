// Package model reads and writes object graphs as documents.
//
// # Overview
//
// A model document is a serializable form of an [objgraph.ObjectGraph] that
// other tools can produce or consume. The same structure is available in
// four encodings:
//
//   - JSON (.json)
//   - TOML (.toml)
//   - YAML (.yaml, .yml)
//   - MessagePack (.msgpack, .mpk)
//
// # Document Format
//
// Objects are listed once; relations refer to them by ID:
//
//	{
//	  "objects": [
//	    {"id": "Pet", "package": "petclinic",
//	     "fields": [{"name": "name", "type": "String"}]},
//	    {"id": "Person", "package": "petclinic", "stereotype": "entity"}
//	  ],
//	  "relations": [
//	    {"type": "ONE_TO_ONE", "from": "Pet", "to": "Person", "label": "owner"},
//	    {"type": "ONE_TO_MANY", "from": "Person", "to": "Pet", "label": "pets"}
//	  ]
//	}
//
// Relation types use the names printed by [objgraph.RelationType.String];
// parsing is case-insensitive and accepts dashes ("one-to-many").
//
// # Reading
//
// [ReadFile] picks the decoder from the file extension; [Decode] reads from
// any io.Reader. Both validate the result: IDs must be non-empty and unique,
// and every relation endpoint must name a listed object. Errors carry the
// INVALID_MODEL code from pkg/errors.
//
//	g, err := model.ReadFile("domain.yaml")
//
// [FileFactory] wraps [ReadFile] as an [objgraph.Factory].
//
// # Writing
//
// [Encode] and [WriteFile] produce the same document from a graph. Writing
// and reading a graph back yields an equal graph.
package model
