// Package badgerdb хранит документы во встроенной БД BadgerDB.
//
// Ключ документа: <collection>/<id>, значение - JSON записи. Идентификаторы
// выдаются как UUIDv7, поэтому обход по префиксу идёт в порядке вставки.
package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/store"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	// Path - каталог файлов БД, игнорируется при InMemory
	Path       string
	InMemory   bool
	SyncWrites bool
	// GCInterval - период сборки мусора value log, 0 отключает
	GCInterval     time.Duration
	GCDiscardRatio float64
}

func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// zapLogger адаптирует zap к интерфейсу логгера BadgerDB
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf("Store: badger: "+format, args...)
}

func (l *zapLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf("Store: badger: "+format, args...)
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Debugf("Store: badger: "+format, args...)
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf("Store: badger: "+format, args...)
}

type Storage struct {
	db     *badger.DB
	stopGC chan struct{}
	gcDone chan struct{}
	once   sync.Once
}

func Open(cfg Config) (*Storage, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("не задан путь к каталогу badger")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("создание каталога %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&zapLogger{sugar: logger.Logger.Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		logger.Error("Store: Ошибка открытия badger", err)
		return nil, fmt.Errorf("открытие badger: %w", err)
	}

	s := &Storage{db: db}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	logger.Info("Store: BadgerDB открыта", zap.String("path", cfg.Path), zap.Bool("in_memory", cfg.InMemory))
	return s, nil
}

func (s *Storage) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logger.Warn("Store: Ошибка сборки мусора badger", zap.Error(err))
			}
		}
	}
}

func (s *Storage) Close() error {
	var err error
	s.once.Do(func() {
		if s.stopGC != nil {
			close(s.stopGC)
			<-s.gcDone
		}
		err = s.db.Close()
		logger.Info("Store: BadgerDB закрыта")
	})
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return store.ErrClosed
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

func key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func (s *Storage) Insert(ctx context.Context, collection string, record store.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("генерация id: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("сериализация документа: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(collection, id.String()), data)
	})
	if err != nil {
		return "", fmt.Errorf("добавление документа: %w", err)
	}
	return id.String(), nil
}

func (s *Storage) FetchAll(ctx context.Context, collection string) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(collection + "/")
	docs := []store.Document{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])

			var record store.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("чтение документа %s: %w", id, err)
			}
			docs = append(docs, store.Document{ID: id, Record: record})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("получение документов: %w", err)
	}
	return docs, nil
}

func (s *Storage) get(txn *badger.Txn, collection, id string) (store.Record, error) {
	item, err := txn.Get(key(collection, id))
	if err != nil {
		return nil, err
	}

	var record store.Record
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func (s *Storage) FetchOne(ctx context.Context, collection, id string) (store.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var record store.Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = s.get(txn, collection, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("получение документа: %w", err)
	}
	return record, true, nil
}

func (s *Storage) Merge(ctx context.Context, collection, id string, partial store.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		record, err := s.get(txn, collection, id)
		if err != nil {
			return err
		}
		for k, v := range partial {
			record[k] = v
		}

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(key(collection, id), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("обновление документа: %w", err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(collection, id)); err != nil {
			return err
		}
		return txn.Delete(key(collection, id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("удаление документа: %w", err)
	}
	return nil
}
