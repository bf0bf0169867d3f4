package database

import (
	"log"
	"time"

	"github.com/lib/pq"
)

// InvoiceListener tails the invoice_changes NOTIFY channel and fans
// invoice ids out to registered subscribers.
type InvoiceListener struct {
	listener *pq.Listener
}

// NewInvoiceListener connects a dedicated listening connection.
func NewInvoiceListener(connStr string) (*InvoiceListener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Invoice listener event: %v", err)
		}
	}
	l := pq.NewListener(connStr, 10*time.Second, time.Minute, reportProblem)
	if err := l.Listen("invoice_changes"); err != nil {
		l.Close()
		return nil, err
	}
	return &InvoiceListener{listener: l}, nil
}

// Run forwards invoice ids until the listener is closed. It pings the
// server periodically so dropped connections are noticed and redialed.
func (il *InvoiceListener) Run(out chan<- string) {
	for {
		select {
		case n, ok := <-il.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// reconnect notification, nothing to forward
				continue
			}
			out <- n.Extra
		case <-time.After(90 * time.Second):
			go func() {
				if err := il.listener.Ping(); err != nil {
					log.Printf("Invoice listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (il *InvoiceListener) Close() error {
	return il.listener.Close()
}
