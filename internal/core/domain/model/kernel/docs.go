// Package kernel provides the value objects shared by every aggregate of the
// marketplace: identifiers, money and postal addresses.
//
// All kernel values are immutable. Money is backed by an arbitrary precision
// decimal and is always kept at cent precision, so totals computed per seller
// and per order reconcile exactly.
package kernel
