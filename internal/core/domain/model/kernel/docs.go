// Package kernel provides the shared primitives of the shop-floor domain model.
//
// The package includes:
//   - UUID: the identifier value object used for orders, items and
//     real-time connections
//
// Values are immutable and safe for concurrent use.
package kernel
