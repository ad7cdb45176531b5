// Package aggregates defines the coded error taxonomy and the aggregate
// contracts shared by services and the store layer.
package aggregates
