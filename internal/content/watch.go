package content

import "sync"

// watchers fans slot changes out to subscribers in this process.
// Writes from other processes sharing the store are not observed.
type watchers struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Kind
}

// Subscribe returns a channel that receives the kind of every slot written,
// reset or restored through this service. Delivery is lossy: a slow reader
// sees at least the latest change. cancel must be called to release it.
func (s *Service) Subscribe() (changes <-chan Kind, cancel func()) {
	s.watch.mu.Lock()
	defer s.watch.mu.Unlock()

	if s.watch.subs == nil {
		s.watch.subs = make(map[int]chan Kind)
	}
	id := s.watch.next
	s.watch.next++
	ch := make(chan Kind, 1)
	s.watch.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.watch.mu.Lock()
			delete(s.watch.subs, id)
			s.watch.mu.Unlock()
		})
	}
}

func (s *Service) notify(kind Kind) {
	s.watch.mu.Lock()
	defer s.watch.mu.Unlock()
	for _, ch := range s.watch.subs {
		select {
		case ch <- kind:
		default:
			// drop the stale pending value and keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- kind:
			default:
			}
		}
	}
}
