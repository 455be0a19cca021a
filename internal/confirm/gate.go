// Package confirm - подтверждение деструктивных действий пользователем.
// Gate гарантирует, что связанное действие выполнится не больше одного раза
// на одно подтверждение, даже при повторном нажатии.
package confirm

import (
	"context"
	"errors"
	"sync"
	"todoTracker/internal/logger"
	"todoTracker/internal/metrics"

	"go.uber.org/zap"
)

var (
	ErrAlreadyPrompting = errors.New("confirm: prompt already open")
	ErrNotPrompting     = errors.New("confirm: no open prompt")
)

type State int

const (
	StateIdle State = iota
	StatePrompting
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrompting:
		return "prompting"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

type Action func(ctx context.Context) error

// Asker задаёт пользователю вопрос да/нет
type Asker interface {
	Ask(ctx context.Context, question string) (bool, error)
}

type Gate struct {
	name     string
	question string
	action   Action

	mtx   sync.Mutex
	state State
}

// NewGate связывает gate с единственным действием. name попадает в логи и метрики.
func NewGate(name, question string, action Action) *Gate {
	return &Gate{
		name:     name,
		question: question,
		action:   action,
		state:    StateIdle,
	}
}

func (g *Gate) Name() string {
	return g.name
}

func (g *Gate) Question() string {
	return g.question
}

func (g *Gate) State() State {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.state
}

func (g *Gate) Prompt() error {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	if g.state != StateIdle {
		return ErrAlreadyPrompting
	}
	g.state = StatePrompting
	return nil
}

func (g *Gate) Cancel() error {
	g.mtx.Lock()
	if g.state != StatePrompting {
		g.mtx.Unlock()
		return ErrNotPrompting
	}
	g.state = StateIdle
	g.mtx.Unlock()

	metrics.GateOutcomes.WithLabelValues(g.name, string(OutcomeCancelled)).Inc()
	logger.Info("Gate: Действие отменено", zap.String("action", g.name))
	return nil
}

// Confirm выполняет действие ровно один раз. Блокировка держится только
// на время смены состояния, само действие выполняется без неё.
func (g *Gate) Confirm(ctx context.Context) error {
	g.mtx.Lock()
	if g.state != StatePrompting {
		state := g.state
		g.mtx.Unlock()
		logger.Warn("Gate: Повторное подтверждение проигнорировано",
			zap.String("action", g.name),
			zap.Stringer("state", state))
		return ErrNotPrompting
	}
	g.state = StateDispatching
	g.mtx.Unlock()

	err := g.action(ctx)

	g.mtx.Lock()
	g.state = StateIdle
	g.mtx.Unlock()

	if err != nil {
		metrics.GateOutcomes.WithLabelValues(g.name, string(OutcomeFailed)).Inc()
		logger.Error("Gate: Действие завершилось ошибкой", err, zap.String("action", g.name))
		return err
	}

	metrics.GateOutcomes.WithLabelValues(g.name, string(OutcomeConfirmed)).Inc()
	logger.Info("Gate: Действие подтверждено", zap.String("action", g.name))
	return nil
}

// Run проводит полный цикл: открыть запрос, спросить пользователя,
// затем выполнить или отменить действие.
func (g *Gate) Run(ctx context.Context, asker Asker) (Outcome, error) {
	if err := g.Prompt(); err != nil {
		return "", err
	}

	yes, err := asker.Ask(ctx, g.question)
	if err != nil || !yes {
		if cancelErr := g.Cancel(); cancelErr != nil {
			return "", cancelErr
		}
		return OutcomeCancelled, err
	}

	if err := g.Confirm(ctx); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeConfirmed, nil
}

// AutoConfirm - Asker, который всегда отвечает "да"
type AutoConfirm struct{}

func (AutoConfirm) Ask(context.Context, string) (bool, error) {
	return true, nil
}
