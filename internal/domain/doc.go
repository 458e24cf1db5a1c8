// Package domain contains the core entities of the content graph (Creator,
// ContentSet, Card), their closed enumerations, identifier generation, and
// validation logic. It represents the heart of the system, independent of
// any specific storage or delivery mechanism.
package domain
