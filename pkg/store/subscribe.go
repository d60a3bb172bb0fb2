package store

import "github.com/aretw0/flowboard/pkg/domain"

// Subscribe registers fn for every subsequent event. The returned function unregisters it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// queue stamps ev and schedules it for delivery. Caller holds s.mu.
func (s *Store) queue(ev domain.Event) {
	ev.Timestamp = s.now()
	s.pending = append(s.pending, ev)
}

// flush delivers pending events in order. Only one goroutine delivers at a time;
// events queued meanwhile, including by listeners themselves, are picked up by the same loop.
// A panicking listener is logged and skipped for that event.
func (s *Store) flush() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		subs := s.subs

		s.mu.Unlock()
		for _, sub := range subs {
			s.deliver(sub, ev)
		}
		s.mu.Lock()
	}

	s.delivering = false
	s.mu.Unlock()
}

func (s *Store) deliver(sub subscriber, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store listener panicked", "subscriber", sub.id, "event", string(ev.Type), "panic", r)
		}
	}()
	sub.fn(ev)
}
