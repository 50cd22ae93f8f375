package checkout

import d "github.com/fjod/go_cart/netcart/internal/domain"

var transitions = map[d.CheckoutStatus][]d.CheckoutStatus{
	d.CheckoutStatusIdle:       {d.CheckoutStatusValidating},
	d.CheckoutStatusValidating: {d.CheckoutStatusRejected, d.CheckoutStatusApproved},
	d.CheckoutStatusRejected:   {d.CheckoutStatusIdle},
	d.CheckoutStatusApproved:   {d.CheckoutStatusIdle},
}

func CanTransitionTo(from, to d.CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// machine tracks the status of a single checkout attempt
type machine struct {
	status d.CheckoutStatus
	trail  []d.CheckoutStatus
}

func newMachine() *machine {
	return &machine{
		status: d.CheckoutStatusIdle,
		trail:  []d.CheckoutStatus{d.CheckoutStatusIdle},
	}
}

func (m *machine) moveTo(to d.CheckoutStatus) error {
	if !CanTransitionTo(m.status, to) {
		return IllegalTransitionError
	}
	m.status = to
	m.trail = append(m.trail, to)
	return nil
}
