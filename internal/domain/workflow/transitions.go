// Package workflow holds the transition tables for the four entity
// lifecycles. Every status change in the system is checked against exactly
// one of these tables; no handler re-implements legality checks.
package workflow

import "github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"

// Operation is a named state transition
type Operation string

const (
	OpAcceptRequest Operation = "accept-request"
	OpRejectRequest Operation = "reject-request"

	OpAcceptQuote Operation = "accept-quote"
	OpNegotiate   Operation = "negotiate"
	OpRevise      Operation = "revise"
	OpCloseQuote  Operation = "close-quote"

	OpCreateBill Operation = "create-bill"

	OpDisputeBill      Operation = "dispute-bill"
	OpRespondToDispute Operation = "respond-to-dispute"
	OpPayBill          Operation = "pay-bill"
)

// String returns the string representation of the operation
func (o Operation) String() string {
	return string(o)
}

// Role identifies which party fires a counter-proposal
type Role string

const (
	RoleClient   Role = "client"
	RoleBusiness Role = "business"
)

var requestTransitions = map[entity.RequestStatus]map[Operation]entity.RequestStatus{
	entity.RequestPending: {
		OpAcceptRequest: entity.RequestAccepted,
		OpRejectRequest: entity.RequestRejected,
	},
}

var quoteTransitions = map[entity.QuoteStatus]map[Operation]entity.QuoteStatus{
	entity.QuotePending: {
		OpAcceptQuote: entity.QuoteAccepted,
		OpNegotiate:   entity.QuoteNegotiating,
		OpCloseQuote:  entity.QuoteClosed,
	},
	entity.QuoteNegotiating: {
		OpRevise:     entity.QuoteRevised,
		OpCloseQuote: entity.QuoteClosed,
	},
	entity.QuoteRevised: {
		OpAcceptQuote: entity.QuoteAccepted,
		OpNegotiate:   entity.QuoteNegotiating,
		OpCloseQuote:  entity.QuoteClosed,
	},
}

var orderTransitions = map[entity.OrderStatus]map[Operation]entity.OrderStatus{
	entity.OrderPending: {
		OpCreateBill: entity.OrderBilled,
	},
}

var billTransitions = map[entity.BillStatus]map[Operation]entity.BillStatus{
	entity.BillPending: {
		OpDisputeBill: entity.BillDisputed,
		OpPayBill:     entity.BillPaid,
	},
	entity.BillDisputed: {
		OpRespondToDispute: entity.BillPending,
	},
}

// counterProposeNext maps (role, current status) to the status a
// counter-proposal moves the quote into. Negotiate (client) and revise
// (business) are the same primitive with a different actor.
var counterProposeNext = map[Role]map[entity.QuoteStatus]entity.QuoteStatus{
	RoleClient: {
		entity.QuotePending: entity.QuoteNegotiating,
		entity.QuoteRevised: entity.QuoteNegotiating,
	},
	RoleBusiness: {
		entity.QuoteNegotiating: entity.QuoteRevised,
	},
}

// NextRequestStatus resolves the target status for an operation on a Request
func NextRequestStatus(current entity.RequestStatus, op Operation) (entity.RequestStatus, error) {
	if next, ok := requestTransitions[current][op]; ok {
		return next, nil
	}
	return "", InvalidTransitionf("request", current, op)
}

// NextQuoteStatus resolves the target status for an operation on a Quote
func NextQuoteStatus(current entity.QuoteStatus, op Operation) (entity.QuoteStatus, error) {
	if next, ok := quoteTransitions[current][op]; ok {
		return next, nil
	}
	return "", InvalidTransitionf("quote", current, op)
}

// NextOrderStatus resolves the target status for an operation on an Order
func NextOrderStatus(current entity.OrderStatus, op Operation) (entity.OrderStatus, error) {
	if next, ok := orderTransitions[current][op]; ok {
		return next, nil
	}
	return "", InvalidTransitionf("order", current, op)
}

// NextBillStatus resolves the target status for an operation on a Bill
func NextBillStatus(current entity.BillStatus, op Operation) (entity.BillStatus, error) {
	if next, ok := billTransitions[current][op]; ok {
		return next, nil
	}
	return "", InvalidTransitionf("bill", current, op)
}

// CounterProposeStatus resolves the status a counter-proposal by the given
// role moves the quote into
func CounterProposeStatus(role Role, current entity.QuoteStatus) (entity.QuoteStatus, error) {
	op := OpNegotiate
	if role == RoleBusiness {
		op = OpRevise
	}
	if next, ok := counterProposeNext[role][current]; ok {
		return next, nil
	}
	return "", InvalidTransitionf("quote", current, op)
}

// CounterProposeSources returns every status from which the role may fire a
// counter-proposal
func CounterProposeSources(role Role) []entity.QuoteStatus {
	var from []entity.QuoteStatus
	for status := range counterProposeNext[role] {
		from = append(from, status)
	}
	return from
}

// QuoteStatusesPermitting returns every status from which the operation may
// fire. Repositories use this set in guarded updates so the precondition is
// re-checked by the store inside the transaction.
func QuoteStatusesPermitting(op Operation) []entity.QuoteStatus {
	var from []entity.QuoteStatus
	for status, ops := range quoteTransitions {
		if _, ok := ops[op]; ok {
			from = append(from, status)
		}
	}
	return from
}
