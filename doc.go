// Package graphqlcacheid populates synthetic identifiers into GraphQL results
// before they are written to a normalized cache.
//
// A normalized cache stores every object of a result under a key. Objects
// carrying a natural "id" are keyed by type name and id. All other objects
// are keyed by their path, so two different parents sharing a child type
// never overwrite each other. This module composes that path identifier:
//
//	parent identifier "." schema field name ["(" canonical arguments ")"] ["." list index]
//
// The canonical arguments are the resolved field arguments encoded as JSON
// with keys sorted at every level, so value-equal arguments always encode the
// same regardless of key order or how they were passed.
//
// Packages:
//
//	pkg/canonicalvariables  key sorted argument maps and their encoding
//	pkg/fieldtree           field tree of an operation with resolved arguments
//	pkg/dynamicid           walks result data along a field tree and injects "_id"
//	pkg/cacheid             seeds identifiers per cache write (root or fragment write)
//	pkg/querydocument       document parsing and the parsed document cache
//	pkg/responsejson        raw JSON responses, request bodies and merge patches
//	cmd/cacheid             the command line tool
package graphqlcacheid
