package kds

// Event types
const (
	EventOrderUpdate = "order_update"
	EventTableUpdate = "table_update"
	EventInvoicePaid = "invoice_paid"
	EventStockAlert  = "stock_alert"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Notifier publishes domain events after they are committed. Delivery is
// best effort and never fails the operation that produced the event.
type Notifier interface {
	Notify(event string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, interface{}) {}

// Nop discards every event.
var Nop Notifier = nopNotifier{}

type multiNotifier []Notifier

func (m multiNotifier) Notify(event string, data interface{}) {
	for _, n := range m {
		n.Notify(event, data)
	}
}

// Multi fans an event out to every notifier, in order.
func Multi(notifiers ...Notifier) Notifier {
	var out multiNotifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return Nop
	}
	return out
}
