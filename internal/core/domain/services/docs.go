// Package services provides domain services that work across aggregates of
// the shop-floor system.
//
// The package includes:
//   - TargetResolver: decides which broadcast groups receive an order event
package services
