package reflector

type ListenerId uint64

type listener[E any] struct {
	id ListenerId
	fn func(E)
}

// Dispatcher is a synchronous event bus: Emit runs every listener of the
// event's kind, in subscription order, before returning.
type Dispatcher[K comparable, E any] struct {
	kindOf    func(E) K
	listeners map[K][]listener[E]
	nextId    ListenerId
}

func NewDispatcher[K comparable, E any](kindOf func(E) K) *Dispatcher[K, E] {
	return &Dispatcher[K, E]{
		kindOf:    kindOf,
		listeners: make(map[K][]listener[E]),
	}
}

func (d *Dispatcher[K, E]) On(kind K, fn func(E)) ListenerId {
	d.nextId++
	d.listeners[kind] = append(d.listeners[kind], listener[E]{id: d.nextId, fn: fn})
	return d.nextId
}

// Off removes a listener; unknown ids are ignored.
func (d *Dispatcher[K, E]) Off(id ListenerId) {
	for kind, ls := range d.listeners {
		for i, l := range ls {
			if l.id != id {
				continue
			}
			// Copy so an Emit already ranging over the old slice is unaffected.
			next := make([]listener[E], 0, len(ls)-1)
			next = append(next, ls[:i]...)
			next = append(next, ls[i+1:]...)
			if len(next) == 0 {
				delete(d.listeners, kind)
			} else {
				d.listeners[kind] = next
			}
			return
		}
	}
}

func (d *Dispatcher[K, E]) Emit(ev E) {
	for _, l := range d.listeners[d.kindOf(ev)] {
		l.fn(ev)
	}
}

// ListenerCount counts listeners of the given kinds, or of every kind when
// none are given.
func (d *Dispatcher[K, E]) ListenerCount(kinds ...K) int {
	n := 0
	if len(kinds) == 0 {
		for _, ls := range d.listeners {
			n += len(ls)
		}
		return n
	}
	for _, k := range kinds {
		n += len(d.listeners[k])
	}
	return n
}

// subscriptions tracks listener ids a control scheme registered so it can
// drop them all on dispose.
type subscriptions[K comparable, E any] struct {
	d   *Dispatcher[K, E]
	ids []ListenerId
}

func (s *subscriptions[K, E]) on(kind K, fn func(E)) {
	s.ids = append(s.ids, s.d.On(kind, fn))
}

func (s *subscriptions[K, E]) off() {
	for _, id := range s.ids {
		s.d.Off(id)
	}
	s.ids = nil
}

func (s *subscriptions[K, E]) active() bool {
	return len(s.ids) > 0
}
