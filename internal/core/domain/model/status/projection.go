package status

// progress ranks the forward lifecycle. Early and partially cancelled
// children all sit at the bottom rung.
func progress(f Fulfillment) int {
	switch f {
	case Fulfilled:
		return 1
	case AwaitingShipment:
		return 2
	case Shipped:
		return 3
	case Delivered, Archived:
		return 4
	default:
		return 0
	}
}

// early orders the pre-fulfillment states.
func early(f Fulfillment) int {
	switch f {
	case Processing:
		return 2
	case Placed:
		return 1
	default:
		return 0
	}
}

// Project derives a parent order's fulfillment status from the statuses of
// its sub-orders. It is a pure function of its input: the same multiset of
// child statuses always yields the same parent status.
//
// Rules, in order:
//   - no children: Pending
//   - every child Cancelled: Cancelled
//   - every child Archived: Archived
//   - any child returned: Returned when every active child is, else Partially Returned
//   - every active child at the same forward stage: that stage
//   - a mix of Fulfilled and Awaiting Shipment only: Fulfilled
//   - otherwise the partial variant of the most advanced stage
//   - before fulfillment: Partially Cancelled when anything was cancelled,
//     else the most advanced of Pending, Placed and Processing
func Project(children []Fulfillment) Fulfillment {
	if len(children) == 0 {
		return Pending
	}

	active := make([]Fulfillment, 0, len(children))
	anyCancelled := false
	allArchived := true
	for _, c := range children {
		if c != Archived {
			allArchived = false
		}
		switch c {
		case Cancelled:
			anyCancelled = true
			continue
		case PartiallyCancelled:
			anyCancelled = true
		}
		active = append(active, c)
	}

	if len(active) == 0 {
		return Cancelled
	}
	if allArchived {
		return Archived
	}

	returned, anyReturned := 0, false
	for _, c := range active {
		switch c {
		case Returned:
			returned++
			anyReturned = true
		case PartiallyReturned:
			anyReturned = true
		}
	}
	if anyReturned {
		if returned == len(active) {
			return Returned
		}
		return PartiallyReturned
	}

	maxRank, minRank := 0, progress(active[0])
	for _, c := range active {
		r := progress(c)
		if r > maxRank {
			maxRank = r
		}
		if r < minRank {
			minRank = r
		}
	}

	if maxRank == 0 {
		if anyCancelled {
			return PartiallyCancelled
		}
		most := Pending
		for _, c := range active {
			if early(c) > early(most) {
				most = c
			}
		}
		return most
	}

	if minRank == maxRank {
		switch maxRank {
		case 1:
			return Fulfilled
		case 2:
			return AwaitingShipment
		case 3:
			return Shipped
		default:
			return Delivered
		}
	}

	if minRank >= 1 && maxRank <= 2 {
		return Fulfilled
	}

	switch maxRank {
	case 4:
		return PartiallyDelivered
	case 3:
		return PartiallyShipped
	default:
		return PartiallyFulfilled
	}
}
