// Package status holds the closed enumerations used by orders, sub-orders and
// order items, together with the fulfillment transition table and the
// projection that derives a parent order's status from its sub-orders.
//
// The package includes:
//   - Fulfillment: lifecycle stage shared by Order and SubOrder
//   - Payment: payment state of an Order or SubOrder
//   - Item: per-line cancellation and return state
//
// Key business rules:
//   - Sub-orders move Pending -> Fulfilled -> Awaiting Shipment -> Shipped -> Delivered
//   - Awaiting Shipment may be skipped; any other move is a conflict
//   - Cancellation states are entered only by the cancellation workflow
//   - A parent order's fulfillment status is never set directly, it is
//     always projected from the statuses of its sub-orders
//
// String values are the persisted representation and must not change.
package status
