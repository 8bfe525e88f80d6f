package index

import (
	"errors"
	"sync"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
)

// ErrNotFound is returned for an unknown user, index or trip ID.
var ErrNotFound = errors.New("trip not found")

// Registry maps each user to the ordered list of trips they watch.
// Insertion order is the display order; indices shift on removal, so
// callers must list again before addressing a trip by index.
type Registry struct {
	mu    sync.RWMutex // guards users
	users map[int64]*watchList
}

type watchList struct {
	mu    sync.Mutex
	trips []*domain.Trip
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[int64]*watchList),
	}
}

func (r *Registry) list(user int64, create bool) *watchList {
	if !create {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.users[user]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	wl, ok := r.users[user]
	if !ok {
		wl = &watchList{}
		r.users[user] = wl
	}
	return wl
}

// Add appends a trip to the user's list and returns its index
func (r *Registry) Add(user int64, trip *domain.Trip) int {
	wl := r.list(user, true)
	wl.mu.Lock()
	defer wl.mu.Unlock()

	wl.trips = append(wl.trips, trip)
	return len(wl.trips) - 1
}

// List returns a copy of the user's trips in insertion order.
// An unknown user has no trips.
func (r *Registry) List(user int64) []*domain.Trip {
	wl := r.list(user, false)
	if wl == nil {
		return []*domain.Trip{}
	}
	wl.mu.Lock()
	defer wl.mu.Unlock()

	trips := make([]*domain.Trip, len(wl.trips))
	copy(trips, wl.trips)
	return trips
}

// Get returns the trip at index
func (r *Registry) Get(user int64, index int) (*domain.Trip, error) {
	wl := r.list(user, false)
	if wl == nil {
		return nil, ErrNotFound
	}
	wl.mu.Lock()
	defer wl.mu.Unlock()

	if index < 0 || index >= len(wl.trips) {
		return nil, ErrNotFound
	}
	return wl.trips[index], nil
}

// RemoveAt pops the trip at index and returns it. The caller cancels its task.
func (r *Registry) RemoveAt(user int64, index int) (*domain.Trip, error) {
	wl := r.list(user, false)
	if wl == nil {
		return nil, ErrNotFound
	}
	wl.mu.Lock()
	defer wl.mu.Unlock()

	if index < 0 || index >= len(wl.trips) {
		return nil, ErrNotFound
	}
	trip := wl.trips[index]
	wl.trips = append(wl.trips[:index], wl.trips[index+1:]...)
	return trip, nil
}

// RemoveTrip pops the trip with the given ID. Used by expiry, which must not
// depend on indices that may have shifted since the tick was scheduled.
func (r *Registry) RemoveTrip(user int64, tripID string) (*domain.Trip, error) {
	wl := r.list(user, false)
	if wl == nil {
		return nil, ErrNotFound
	}
	wl.mu.Lock()
	defer wl.mu.Unlock()

	for i, trip := range wl.trips {
		if trip.ID == tripID {
			wl.trips = append(wl.trips[:i], wl.trips[i+1:]...)
			return trip, nil
		}
	}
	return nil, ErrNotFound
}

// Count returns the number of trips across all users
func (r *Registry) Count() int {
	r.mu.RLock()
	lists := make([]*watchList, 0, len(r.users))
	for _, wl := range r.users {
		lists = append(lists, wl)
	}
	r.mu.RUnlock()

	total := 0
	for _, wl := range lists {
		wl.mu.Lock()
		total += len(wl.trips)
		wl.mu.Unlock()
	}
	return total
}

// Users returns the IDs of users with at least one trip
func (r *Registry) Users() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]int64, 0, len(r.users))
	for id, wl := range r.users {
		wl.mu.Lock()
		if len(wl.trips) > 0 {
			users = append(users, id)
		}
		wl.mu.Unlock()
	}
	return users
}

// Drain removes every trip of every user and returns them
func (r *Registry) Drain() []*domain.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()

	var trips []*domain.Trip
	for id, wl := range r.users {
		wl.mu.Lock()
		trips = append(trips, wl.trips...)
		wl.mu.Unlock()
		delete(r.users, id)
	}
	return trips
}
