// Package services provides the pure domain computations of the order
// pipeline that do not belong to a single aggregate.
//
// The package includes:
//   - FeeAllocator: commission, seller net and customer total for one seller
//   - SellerPartitioner: groups cart lines by seller and splits order-level
//     shipping across sellers and their items
//   - DeliveryEstimator: the promised delivery date from carrier windows
//   - RefundCalculator: refund and payout-reversal amounts for cancellations
//
// None of the services perform I/O. Identical inputs always yield identical
// outputs to the cent, which lets per-seller results be summed at order level.
package services
