// Package aggregates composes table-level repos from internal/data/repos into
// the insight graph reads and the transactional link save.
package aggregates
