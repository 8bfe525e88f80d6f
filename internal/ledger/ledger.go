package ledger

import (
	"sync"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
)

// Ledger records, per user, the tickets a notification was already sent for.
//
// Each user's set has its own lock, so two trips of the same user ticking at
// once serialize on that set while other users proceed independently.
type Ledger struct {
	mu    sync.Mutex
	users map[int64]*notifiedSet
	now   func() time.Time
}

type notifiedSet struct {
	mu      sync.Mutex
	tickets map[domain.TicketKey]domain.Ticket
}

// New creates an empty ledger. now defaults to time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		users: make(map[int64]*notifiedSet),
		now:   now,
	}
}

// entry returns the user's set. created is true when the set did not
// exist and was initialized by this call.
func (l *Ledger) entry(user int64, create bool) (set *notifiedSet, created bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.users[user]
	if ok || !create {
		return set, false
	}
	set = &notifiedSet{tickets: make(map[domain.TicketKey]domain.Ticket)}
	l.users[user] = set
	return set, true
}

// FilterNovel returns the tickets not yet notified for the user, in input
// order. It does not modify the ledger and must be called before Update
// for the same batch. A user without an entry yields no tickets.
func (l *Ledger) FilterNovel(user int64, tickets []domain.Ticket) []domain.Ticket {
	set, _ := l.entry(user, false)
	if set == nil {
		return nil
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	return set.novel(tickets)
}

// Update applies a full poll batch, including sold-out tickets.
//
// A user seen for the first time only gets an empty entry; the batch itself
// is ignored. This reproduces the bot's historical cold start, which means
// the very first poll never produces a notification.
func (l *Ledger) Update(user int64, all []domain.Ticket) {
	set, created := l.entry(user, true)
	if created {
		return
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	set.apply(all, l.now())
}

// Observe filters matched against the user's set and then applies the full
// batch, under one hold of the user's lock so a concurrent tick for another
// trip of the same user cannot interleave. It returns the novel tickets.
// Cold start behaves as in Update: an empty entry is created and nothing
// is returned.
func (l *Ledger) Observe(user int64, matched, all []domain.Ticket) []domain.Ticket {
	set, created := l.entry(user, true)
	if created {
		return nil
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	novel := set.novel(matched)
	set.apply(all, l.now())
	return novel
}

// Contains reports whether the ticket's offering is in the user's set.
func (l *Ledger) Contains(user int64, ticket domain.Ticket) bool {
	set, _ := l.entry(user, false)
	if set == nil {
		return false
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	_, ok := set.tickets[ticket.Key()]
	return ok
}

// Len returns the size of the user's set.
func (l *Ledger) Len(user int64) int {
	set, _ := l.entry(user, false)
	if set == nil {
		return 0
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.tickets)
}

func (s *notifiedSet) novel(tickets []domain.Ticket) []domain.Ticket {
	var out []domain.Ticket
	for _, t := range tickets {
		if _, ok := s.tickets[t.Key()]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func (s *notifiedSet) apply(all []domain.Ticket, now time.Time) {
	for _, t := range all {
		key := t.Key()
		if !t.Available() {
			// sold out: forget it so a seat coming back notifies again
			delete(s.tickets, key)
			continue
		}
		if _, ok := s.tickets[key]; !ok {
			s.tickets[key] = t
		}
	}

	for key, t := range s.tickets {
		if t.Departed(now) {
			delete(s.tickets, key)
		}
	}
}
