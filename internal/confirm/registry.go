package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPromptNotFound = errors.New("confirm: prompt not found or expired")

const DefaultPromptTTL = 5 * time.Minute

// ResultAction - действие, которое возвращает id затронутого ресурса
type ResultAction func(ctx context.Context) (string, error)

// Resolution - итог подтверждённого запроса
type Resolution struct {
	PromptID   string
	Action     string
	ResourceID string
}

type pending struct {
	gate       *Gate
	expiresAt  time.Time
	resourceID string
}

// Registry хранит открытые запросы подтверждения для двухшагового HTTP-сценария.
// Разрешённый запрос остаётся в реестре до истечения TTL, чтобы повторное
// подтверждение получило ErrNotPrompting, а не ErrPromptNotFound.
type Registry struct {
	mtx     sync.Mutex
	prompts map[string]*pending
	ttl     time.Duration
	now     func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultPromptTTL
	}
	return &Registry{
		prompts: make(map[string]*pending),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock подменяет часы реестра
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Open создаёт gate, сразу переводит его в Prompting и возвращает id запроса
func (r *Registry) Open(name, question string, action ResultAction) (string, time.Time, error) {
	p := &pending{}
	p.gate = NewGate(name, question, func(ctx context.Context) error {
		id, err := action(ctx)
		if err != nil {
			return err
		}
		r.mtx.Lock()
		p.resourceID = id
		r.mtx.Unlock()
		return nil
	})
	if err := p.gate.Prompt(); err != nil {
		return "", time.Time{}, err
	}

	id := uuid.NewString()

	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.purgeLocked()
	p.expiresAt = r.now().Add(r.ttl)
	r.prompts[id] = p
	return id, p.expiresAt, nil
}

func (r *Registry) lookup(id string) (*pending, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	p, ok := r.prompts[id]
	if !ok {
		return nil, ErrPromptNotFound
	}
	if !r.now().Before(p.expiresAt) {
		delete(r.prompts, id)
		return nil, ErrPromptNotFound
	}
	return p, nil
}

// Confirm выполняет действие запроса; повторный вызов вернёт ErrNotPrompting
func (r *Registry) Confirm(ctx context.Context, id string) (Resolution, error) {
	p, err := r.lookup(id)
	if err != nil {
		return Resolution{}, err
	}

	if err := p.gate.Confirm(ctx); err != nil {
		if !errors.Is(err, ErrNotPrompting) {
			// действие упало, повторять его по этому запросу нельзя
			r.remove(id)
		}
		return Resolution{}, err
	}

	r.mtx.Lock()
	res := Resolution{PromptID: id, Action: p.gate.Name(), ResourceID: p.resourceID}
	r.mtx.Unlock()
	return res, nil
}

// Cancel закрывает запрос без выполнения действия
func (r *Registry) Cancel(id string) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	if err := p.gate.Cancel(); err != nil {
		return err
	}
	return nil
}

func (r *Registry) remove(id string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	delete(r.prompts, id)
}

// Purge удаляет просроченные запросы и возвращает их число
func (r *Registry) Purge() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.purgeLocked()
}

func (r *Registry) purgeLocked() int {
	now := r.now()
	removed := 0
	for id, p := range r.prompts {
		if !now.Before(p.expiresAt) {
			delete(r.prompts, id)
			removed++
		}
	}
	return removed
}

// Len - число запросов в реестре, включая разрешённые, но ещё не просроченные
func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.prompts)
}
