package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"todoTracker/internal/logger"
	"todoTracker/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Storage хранит документы в одном файле SQLite, тело документа - JSON-текст
type Storage struct {
	db *sql.DB
}

func Open(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("создание каталога БД: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("Store: Ошибка открытия SQLite", err)
		return nil, fmt.Errorf("открытие БД: %w", err)
	}
	// один писатель: SQLite блокирует файл целиком, а :memory: живёт в одном соединении
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		logger.Error("Store: Ошибка создания схемы SQLite", err)
		return nil, fmt.Errorf("создание схемы: %w", err)
	}

	logger.Info("Store: SQLite открыта", zap.String("path", path))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, collection string, record store.Record) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("сериализация документа: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(data)); err != nil {
		return "", fmt.Errorf("добавление документа: %w", err)
	}
	return id, nil
}

func (s *Storage) FetchAll(ctx context.Context, collection string) ([]store.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = ? ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("получение документов: %w", err)
	}
	defer rows.Close()

	docs := []store.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("сканирование документа: %w", err)
		}

		var record store.Record
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("разбор документа %s: %w", id, err)
		}
		docs = append(docs, store.Document{ID: id, Record: record})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return docs, nil
}

func (s *Storage) FetchOne(ctx context.Context, collection, id string) (store.Record, bool, error) {
	query := `SELECT data FROM documents WHERE collection = ? AND id = ?`

	var data string
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("получение документа: %w", err)
	}

	var record store.Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, false, fmt.Errorf("разбор документа %s: %w", id, err)
	}
	return record, true, nil
}

func (s *Storage) Merge(ctx context.Context, collection, id string, partial store.Record) error {
	patch, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("сериализация обновления: %w", err)
	}

	query := `UPDATE documents
			SET data = json_patch(data, ?),
				updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE collection = ? AND id = ?`

	return s.execAffected(ctx, "обновление документа", query, string(patch), collection, id)
}

func (s *Storage) Remove(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = ? AND id = ?`
	return s.execAffected(ctx, "удаление документа", query, collection, id)
}

func (s *Storage) execAffected(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
