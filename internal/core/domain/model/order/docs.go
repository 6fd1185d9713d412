// Package order provides the Order aggregate of the shop-floor service: an order
// number, four production sections (glass, caps, boxes, pumps) holding ordered
// items, and per-item progress tracking reported by the production teams.
//
// The package includes:
//   - Order: the aggregate root owning sections, items and the order status
//   - Item: one line of a section with its ordered quantity and tracking
//   - ItemID: the opaque item identifier, kept verbatim from the client
//   - Tracking: the completed-quantity ledger of an item
//   - Status: Pending or Completed, for both items and orders
//   - Section: the order-detail sections, named like the team groups
//
// Key business rules:
//   - An item's completed total never exceeds its ordered quantity; the check
//     runs before a completion entry is recorded
//   - An item is Completed once its completed total reaches its quantity
//   - An order is Completed when it has at least one item and every item is
//     complete; an item without tracking is complete only if its quantity is 0
//   - A progress batch is applied atomically: one rejected update leaves the
//     order untouched
package order
