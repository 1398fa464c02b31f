package resolver

import (
	"sync"

	"github.com/huangsam/callerid/schema"
)

// notifier fans status updates out to subscribers without ever blocking the sender.
// A subscriber that falls behind loses its oldest pending update, so the newest
// status is always delivered.
type notifier struct {
	mu   sync.Mutex
	subs map[int]chan schema.ManagerStatus
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan schema.ManagerStatus)}
}

func (n *notifier) subscribe(buffer int) (<-chan schema.ManagerStatus, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan schema.ManagerStatus, buffer)

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (n *notifier) publish(st schema.ManagerStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- st:
			continue
		default:
		}
		// Full: drop the oldest pending update and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}
