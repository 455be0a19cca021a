package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type Options struct {
	MaxConnections int32
	MinConnections int32
	IdleTimeout    time.Duration
}

// Storage хранит документы в таблице documents, тело документа - JSONB
type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Store: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if opts.MaxConnections > 0 {
		config.MaxConns = opts.MaxConnections
	}
	if opts.MinConnections > 0 {
		config.MinConns = opts.MinConnections
	}
	if opts.IdleTimeout > 0 {
		config.MaxConnIdleTime = opts.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Store: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Store: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Store: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	logger.Info("Store: Закрытие всех соединений PostgreSQL")
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Store: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, collection string, record store.Record) (string, error) {
	start := time.Now()
	defer warnSlow("insert", start)

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("сериализация документа: %w", err)
	}

	id := uuid.New()
	query := `INSERT INTO documents (collection, id, data)
				VALUES ($1, $2, $3::jsonb)`

	if _, err := s.pool.Exec(ctx, query, collection, id, string(data)); err != nil {
		return "", fmt.Errorf("добавление документа: %w", err)
	}
	return id.String(), nil
}

func (s *Storage) FetchAll(ctx context.Context, collection string) ([]store.Document, error) {
	start := time.Now()
	defer warnSlow("fetch_all", start)

	query := `SELECT id, data
				FROM documents
				WHERE collection = $1
				ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("получение документов: %w", err)
	}
	defer rows.Close()

	docs := []store.Document{}
	for rows.Next() {
		var (
			id     uuid.UUID
			record store.Record
		)
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("сканирование документа: %w", err)
		}
		docs = append(docs, store.Document{ID: id.String(), Record: record})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return docs, nil
}

func (s *Storage) FetchOne(ctx context.Context, collection, id string) (store.Record, bool, error) {
	start := time.Now()
	defer warnSlow("fetch_one", start)

	docID, err := uuid.Parse(id)
	if err != nil {
		// чужой формат id не может существовать в таблице
		return nil, false, nil
	}

	query := `SELECT data
				FROM documents
				WHERE collection = $1 AND id = $2`

	var record store.Record
	err = s.pool.QueryRow(ctx, query, collection, docID).Scan(&record)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("получение документа: %w", err)
	}
	return record, true, nil
}

func (s *Storage) Merge(ctx context.Context, collection, id string, partial store.Record) error {
	start := time.Now()
	defer warnSlow("merge", start)

	docID, err := uuid.Parse(id)
	if err != nil {
		return store.ErrNotFound
	}

	patch, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("сериализация обновления: %w", err)
	}

	query := `UPDATE documents
				SET data = data || $3::jsonb,
				updated_at = NOW()
			WHERE collection = $1 AND id = $2`

	tag, err := s.pool.Exec(ctx, query, collection, docID, string(patch))
	if err != nil {
		return fmt.Errorf("обновление документа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, collection, id string) error {
	start := time.Now()
	defer warnSlow("remove", start)

	docID, err := uuid.Parse(id)
	if err != nil {
		return store.ErrNotFound
	}

	query := `DELETE FROM documents
				WHERE collection = $1 AND id = $2`

	tag, err := s.pool.Exec(ctx, query, collection, docID)
	if err != nil {
		return fmt.Errorf("удаление документа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func warnSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Store: Медленный запрос", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}
