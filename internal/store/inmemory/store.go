package inmemory

import (
	"context"
	"sync"
	"todoTracker/internal/logger"
	"todoTracker/internal/store"

	"github.com/google/uuid"
)

type collection struct {
	docs map[string]store.Record
	ids  []string
}

// Storage хранит документы в памяти процесса, порядок вставки сохраняется
type Storage struct {
	collections map[string]*collection
	mtx         *sync.RWMutex
	closed      bool
}

func New() *Storage {
	return &Storage{
		collections: make(map[string]*collection),
		mtx:         &sync.RWMutex{},
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return store.ErrClosed
	}
	logger.Debug("Store: Соединение стабильно")
	return nil
}

func (s *Storage) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	return nil
}

func (s *Storage) Insert(ctx context.Context, name string, record store.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return "", store.ErrClosed
	}

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]store.Record)}
		s.collections[name] = c
	}

	id := uuid.NewString()
	c.docs[id] = record.Clone()
	c.ids = append(c.ids, id)
	return id, nil
}

func (s *Storage) FetchAll(ctx context.Context, name string) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}

	res := []store.Document{}
	c, ok := s.collections[name]
	if !ok {
		return res, nil
	}

	for _, id := range c.ids {
		res = append(res, store.Document{ID: id, Record: c.docs[id].Clone()})
	}
	return res, nil
}

func (s *Storage) FetchOne(ctx context.Context, name, id string) (store.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, false, store.ErrClosed
	}

	c, ok := s.collections[name]
	if !ok {
		return nil, false, nil
	}
	record, ok := c.docs[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (s *Storage) Merge(ctx context.Context, name, id string, partial store.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	c, ok := s.collections[name]
	if !ok {
		return store.ErrNotFound
	}
	record, ok := c.docs[id]
	if !ok {
		return store.ErrNotFound
	}

	merged := record.Clone()
	for k, v := range partial {
		merged[k] = v
	}
	c.docs[id] = merged
	return nil
}

func (s *Storage) Remove(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	c, ok := s.collections[name]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}

	delete(c.docs, id)
	for ind, val := range c.ids {
		if val == id {
			c.ids = append(c.ids[:ind], c.ids[ind+1:]...)
			break
		}
	}
	return nil
}
