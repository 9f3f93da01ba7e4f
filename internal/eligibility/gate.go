package eligibility

import "communityticketing/internal/domain"

// Gate is one independent, side-effect-free eligibility rule. Check returns
// nil to continue to the next gate, or a Decision to short-circuit the
// chain: a blocking Decision rejects the user, an allowing one (privileged
// access) admits them without running the stricter downstream gates.
//
// Gates are total functions over the Context: they never return errors and
// never perform I/O.
type Gate interface {
	Name() string
	Check(c *Context) *domain.Decision
}

// Chain evaluates gates in a fixed order.
type Chain struct {
	gates []Gate
}

// NewChain returns the standard gate chain in its fixed evaluation order.
// The order is load-bearing: privileged access is a fast path that also
// shields staff from the blacklist gate, and the cheap schedule checks run
// before the questionnaire and capacity checks.
func NewChain() *Chain {
	return &Chain{gates: []Gate{
		privilegedAccessGate{},
		blacklistGate{},
		eventStatusGate{},
		rsvpDeadlineGate{},
		applyDeadlineGate{},
		invitationGate{},
		membershipGate{},
		questionnaireGate{},
		availabilityGate{},
		ticketSalesGate{},
	}}
}

// Evaluate runs the chain against the snapshot and returns the first
// non-passing Decision, or an allow when every gate passes. With bypass set
// it allows immediately; bypass is reserved for trusted internal callers
// and must never be driven by untrusted input.
//
// Evaluate is a pure function of the Context: the same snapshot always
// yields the same Decision.
func (ch *Chain) Evaluate(c *Context, bypass bool) domain.Decision {
	if bypass {
		return domain.Allow(c.Event.ID)
	}
	for _, g := range ch.gates {
		if d := g.Check(c); d != nil {
			return *d
		}
	}
	return domain.Allow(c.Event.ID)
}
