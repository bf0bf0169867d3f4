package billing

import (
	"bufio"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// hub fans invoice change ids out to connected SSE clients. Slow
// clients are dropped rather than blocking the feed.
type hub struct {
	mu      sync.Mutex
	clients map[chan string]bool
}

var changeHub = &hub{clients: make(map[chan string]bool)}

func (h *hub) subscribe() (chan string, func()) {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.clients[ch] = true
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *hub) publish(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- id:
		default:
			// client is not keeping up, skip it
		}
	}
}

// PublishInvoiceChange forwards one changed invoice id to all
// subscribed clients. Wired to the database NOTIFY listener in main.
func PublishInvoiceChange(id string) {
	changeHub.publish(id)
}

// SubscribeInvoicesAPI streams invoice change ids as server-sent
// events. Clients re-fetch the affected rows on each event.
func SubscribeInvoicesAPI(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ch, cancel := changeHub.subscribe()
		defer cancel()

		for id := range ch {
			if _, err := fmt.Fprintf(w, "event: invoice\ndata: %s\n\n", id); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
