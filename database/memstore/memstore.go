// Package memstore is an in-process database.Store used for local
// development and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stocks-simulator/database"
	"stocks-simulator/models"
)

type holdingKey struct {
	username string
	symbol   string
}

type state struct {
	nextUserID  uint
	nextEntryID uint
	users       map[uint]models.User
	holdings    map[holdingKey]models.Holding
	entries     []models.LedgerEntry
}

func (st *state) clone() *state {
	c := &state{
		nextUserID:  st.nextUserID,
		nextEntryID: st.nextEntryID,
		users:       make(map[uint]models.User, len(st.users)),
		holdings:    make(map[holdingKey]models.Holding, len(st.holdings)),
		entries:     append([]models.LedgerEntry(nil), st.entries...),
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.holdings {
		c.holdings[k] = v
	}
	return c
}

type db struct {
	mu sync.Mutex
	st *state
}

// Store implements database.Store in memory. Writers are serialized by a
// single mutex; Atomic works on a copy that replaces the live state only
// when the callback succeeds.
type Store struct {
	db  *db
	tx  *state
	now func() time.Time
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		db: &db{st: &state{
			nextUserID:  1,
			nextEntryID: 1,
			users:       make(map[uint]models.User),
			holdings:    make(map[holdingKey]models.Holding),
		}},
		now: time.Now,
	}
}

func (s *Store) with(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.st)
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	return s.with(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return database.ErrAlreadyExists
			}
		}
		user.ID = st.nextUserID
		st.nextUserID++
		if user.CreatedAt.IsZero() {
			user.CreatedAt = s.now()
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (s *Store) UserByID(_ context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return database.ErrNotFound
		}
		user = u
		return nil
	})
	return user, err
}

func (s *Store) UserByUsername(_ context.Context, username string) (models.User, error) {
	var user models.User
	err := s.with(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				user = u
				return nil
			}
		}
		return database.ErrNotFound
	})
	return user, err
}

// LockUser is UserByID: inside Atomic the store mutex is already held.
func (s *Store) LockUser(ctx context.Context, id uint) (models.User, error) {
	return s.UserByID(ctx, id)
}

func (s *Store) UpdateCash(_ context.Context, id uint, cash decimal.Decimal) error {
	return s.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return database.ErrNotFound
		}
		u.Cash = cash
		st.users[id] = u
		return nil
	})
}

func (s *Store) Holding(_ context.Context, username, symbol string) (models.Holding, error) {
	var h models.Holding
	err := s.with(func(st *state) error {
		found, ok := st.holdings[holdingKey{username, symbol}]
		if !ok {
			return database.ErrNotFound
		}
		h = found
		return nil
	})
	return h, err
}

func (s *Store) Holdings(_ context.Context, username string) ([]models.Holding, error) {
	out := make([]models.Holding, 0)
	err := s.with(func(st *state) error {
		for k, h := range st.holdings {
			if k.username == username {
				out = append(out, h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, err
}

func (s *Store) SaveHolding(_ context.Context, h *models.Holding) error {
	return s.with(func(st *state) error {
		h.UpdatedAt = s.now()
		st.holdings[holdingKey{h.Username, h.Symbol}] = *h
		return nil
	})
}

func (s *Store) DeleteHolding(_ context.Context, username, symbol string) error {
	return s.with(func(st *state) error {
		delete(st.holdings, holdingKey{username, symbol})
		return nil
	})
}

func (s *Store) AppendEntry(_ context.Context, e *models.LedgerEntry) error {
	return s.with(func(st *state) error {
		e.ID = st.nextEntryID
		st.nextEntryID++
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		st.entries = append(st.entries, *e)
		return nil
	})
}

func (s *Store) Entries(_ context.Context, username string) ([]models.LedgerEntry, error) {
	out := make([]models.LedgerEntry, 0)
	err := s.with(func(st *state) error {
		for _, e := range st.entries {
			if e.Username == username {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) Atomic(_ context.Context, fn func(tx database.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.st.clone()
	if err := fn(&Store{db: s.db, tx: snapshot, now: s.now}); err != nil {
		return err
	}
	s.db.st = snapshot
	return nil
}
