// Package store defines interfaces for data persistence operations over
// the three entity kinds of the content graph. These interfaces abstract
// the underlying container mechanism from the application's core logic,
// allowing business rules to remain independent of persistence details.
package store
