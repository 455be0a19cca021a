// Package cli - команды cobra для работы с задачами из терминала.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/confirm"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"

	"github.com/spf13/cobra"
)

type Service interface {
	CreateTask(ctx context.Context, draft task.Draft) (string, error)
	ListTasks(ctx context.Context, sortField string) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id string) (*task.Task, error)
	RescheduleTask(ctx context.Context, id string, dueDate time.Time) error
	UpdateStatus(ctx context.Context, id string, status task.Status) error
	DeleteTask(ctx context.Context, id string) error
}

// Opener открывает сервис по пути к конфигу; close освобождает хранилище
type Opener func(ctx context.Context, configPath string) (svc Service, close func() error, err error)

type rootCommand struct {
	cmd    *cobra.Command
	open   Opener
	asker  confirm.Asker
	svc    Service
	close  func() error
	config string
	yes    bool
}

// NewRootCommand собирает дерево команд. asker спрашивает подтверждение для add и rm,
// флаг --yes заменяет его на автоматическое согласие.
func NewRootCommand(open Opener, asker confirm.Asker) *cobra.Command {
	root := &rootCommand{
		open:  open,
		asker: asker,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "Трекер задач в терминале",
		Long: `todo хранит задачи с приоритетом и сроком и отмечает просроченные.

ПРИМЕРЫ:
  todo add --name "Сдать отчёт" --due 2024-06-01 --priority High --description "квартальный"
  todo list --sort dueDate
  todo show <id>
  todo reschedule <id> 2024-07-01
  todo status <id> Completed
  todo rm <id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := root.open(cmd.Context(), root.config)
			if err != nil {
				return err
			}
			root.svc = svc
			root.close = closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if root.close == nil {
				return nil
			}
			return root.close()
		},
	}

	flags := root.cmd.PersistentFlags()
	flags.StringVarP(&root.config, "config", "c", "config.yml", "путь к config.yml")
	flags.BoolVarP(&root.yes, "yes", "y", false, "не спрашивать подтверждение")

	root.cmd.AddCommand(
		root.addCommand(),
		root.listCommand(),
		root.showCommand(),
		root.rescheduleCommand(),
		root.statusCommand(),
		root.removeCommand(),
	)
	return root.cmd
}

func (r *rootCommand) confirmer() confirm.Asker {
	if r.yes || r.asker == nil {
		return confirm.AutoConfirm{}
	}
	return r.asker
}

// userError оставляет пользователю только понятное сообщение репозитория
func userError(err error) error {
	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		return errors.New(repoErr.Message)
	}
	return err
}

func parseDue(raw string) (time.Time, error) {
	due, err := task.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("срок должен быть в формате ГГГГ-ММ-ДД или RFC 3339: %q", raw)
	}
	return due, nil
}
