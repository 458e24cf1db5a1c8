// Package service contains the engine's application services: validated
// batch writes into the content graph, cascading deletes, navigation
// sequencing, homepage curation, and legacy archive import. Services
// depend on the store interfaces, never on a concrete storage backend.
package service
