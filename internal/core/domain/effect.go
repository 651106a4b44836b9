package domain

// Effect is what a handler's Apply produces: the caller-visible result, an
// optional entry set proposal, and the events to publish on commit. The
// coordinator assigns entry identities and validates the balance invariant
// before anything is made durable.
type Effect struct {
	Result   Result
	EntrySet *EntrySet // nil for commands that never touch the ledger
	Events   []DomainEvent
}
