package storage

import "sync"

// changeNotifier fans out "table changed" signals to live subscriptions.
// Each subscriber channel has room for one pending signal; further signals
// coalesce into it because subscribers always re-read the whole table.
type changeNotifier struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

func (n *changeNotifier) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers[ch] = struct{}{}
	return ch
}

func (n *changeNotifier) unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subscribers, ch)
}

func (n *changeNotifier) publish() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subscribers {
		select {
		case ch <- struct{}{}:
		default:
			// A signal is already pending.
		}
	}
}

func (n *changeNotifier) count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}
