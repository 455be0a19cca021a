// Package store описывает удалённое документное хранилище, через которое
// репозиторий читает и пишет записи задач.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("документ не найден")
	ErrClosed   = errors.New("хранилище закрыто")
)

// Record - документ: имя поля -> значение
type Record map[string]any

// Document - запись вместе с идентификатором, назначенным хранилищем
type Document struct {
	ID     string
	Record Record
}

type DocumentStore interface {
	Insert(ctx context.Context, collection string, record Record) (string, error)
	FetchAll(ctx context.Context, collection string) ([]Document, error)
	// FetchOne возвращает false без ошибки, если документа нет
	FetchOne(ctx context.Context, collection, id string) (Record, bool, error)
	// Merge и Remove возвращают ErrNotFound, если документа нет
	Merge(ctx context.Context, collection, id string, partial Record) error
	Remove(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Clone делает поверхностную копию записи
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
