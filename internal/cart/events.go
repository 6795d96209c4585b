package cart

import "github.com/shopspring/decimal"

// Event is a domain notification published after a successful cart mutation.
// The store knows nothing about analytics vendors; sinks subscribe externally.
type Event struct {
	Name   string
	Value  decimal.Decimal
	Params map[string]interface{}
}

// Subscriber receives cart events. A panicking subscriber is recovered and
// logged; it never breaks the mutation that triggered it.
type Subscriber func(Event)
