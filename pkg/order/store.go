package order

import (
	"botleague/pkg/types"
	"sort"
	"sync"
)

// Store is the in-memory order book of one trading service. Entries are never
// removed; reads return copies so callers cannot mutate stored records.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

func NewStore() *Store {
	return &Store{orders: make(map[string]*Order)}
}

// Put inserts or replaces the record keyed by o.Id.
func (s *Store) Put(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.Id] = o.clone()
}

func (s *Store) Get(id string) (*Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	return o.clone(), true
}

// UpdateStatus mutates only the status of an existing record.
func (s *Store) UpdateStatus(id string, status types.OrderStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false
	}
	o.Status = status
	return true
}

// All returns every record, oldest first.
func (s *Store) All() []*Order {
	return s.filter(func(*Order) bool { return true })
}

func (s *Store) ByToken(token string) []*Order {
	return s.filter(func(o *Order) bool { return o.Token == token })
}

// Pending returns the records still awaiting a terminal status.
func (s *Store) Pending() []*Order {
	return s.filter(func(o *Order) bool { return !o.Status.IsTerminal() })
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Store) filter(keep func(*Order) bool) []*Order {
	s.mu.RLock()
	res := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			res = append(res, o.clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Timestamp.Equal(res[j].Timestamp) {
			return res[i].Id < res[j].Id
		}
		return res[i].Timestamp.Before(res[j].Timestamp)
	})
	return res
}
