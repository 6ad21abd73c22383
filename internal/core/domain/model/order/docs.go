// Package order provides the buyer-facing Order aggregate of the marketplace.
// One Order is created per checkout and spans every seller present in the
// cart; the per-seller halves live in package suborder.
//
// The package includes:
//   - Order: the aggregate root holding totals, addresses, items and links
//     to its sub-orders
//   - Item: one cart line, tracking how many of its units were cancelled
//
// Key business rules:
//   - An order is created with at least one item and never loses items
//   - cancelledQuantity of an item only grows and never exceeds quantity
//   - Sub-order links are attached exactly once, right after creation
//   - The fulfillment status is never written directly; it is projected
//     from the statuses of the sub-orders
//   - Only the buyer, or the store a buyer acts for, may cancel
package order
