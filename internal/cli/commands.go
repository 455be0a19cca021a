package cli

import (
	"context"
	"fmt"
	"strings"
	"todoTracker/internal/confirm"
	"todoTracker/internal/models/task"
	"todoTracker/internal/ordering"
	"todoTracker/internal/service"

	"github.com/spf13/cobra"
)

func (r *rootCommand) addCommand() *cobra.Command {
	var name, due, priority, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить задачу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDue(due)
			if err != nil {
				return err
			}
			draft := task.Draft{
				TaskName:    name,
				DueDate:     dueDate,
				Priority:    priority,
				Description: description,
			}
			if err := service.ValidateDraft(draft); err != nil {
				return userError(err)
			}

			var id string
			gate := confirm.NewGate("create", "Сохранить задачу?", func(ctx context.Context) error {
				var err error
				id, err = r.svc.CreateTask(ctx, draft)
				return err
			})

			outcome, err := gate.Run(cmd.Context(), r.confirmer())
			if err != nil {
				return userError(err)
			}
			if outcome == confirm.OutcomeCancelled {
				renderMuted(cmd.OutOrStdout(), "Отменено")
				return nil
			}

			renderSuccess(cmd.OutOrStdout(), "Задача создана: "+id)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "name", "n", "", "название задачи")
	flags.StringVarP(&due, "due", "d", "", "срок, ГГГГ-ММ-ДД")
	flags.StringVarP(&priority, "priority", "p", task.PriorityMedium, "приоритет: Low, Medium, High")
	flags.StringVar(&description, "description", "", "описание")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func (r *rootCommand) listCommand() *cobra.Command {
	var sortField string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать все задачи",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortField != "" && !ordering.IsDateField(sortField) {
				return fmt.Errorf("сортировка возможна только по %s", task.FieldDueDate)
			}

			tasks, err := r.svc.ListTasks(cmd.Context(), sortField)
			if err != nil {
				return userError(err)
			}
			renderTaskTable(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sortField, "sort", "s", task.FieldDueDate, "поле даты для сортировки, пусто - без сортировки")

	return cmd
}

func (r *rootCommand) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Показать задачу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := r.svc.GetTaskByID(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			renderTask(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func (r *rootCommand) rescheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <id> <date>",
		Short: "Перенести срок задачи",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := parseDue(args[1])
			if err != nil {
				return err
			}
			if err := r.svc.RescheduleTask(cmd.Context(), args[0], due); err != nil {
				return userError(err)
			}
			renderSuccess(cmd.OutOrStdout(), "Срок перенесён на "+formatDue(due))
			return nil
		},
	}
}

func (r *rootCommand) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <Pending|Completed>",
		Short:     "Изменить статус задачи",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(task.StatusPending), string(task.StatusCompleted)},
		RunE: func(cmd *cobra.Command, args []string) error {
			status := task.Status(args[1])
			if status != task.StatusPending && status != task.StatusCompleted {
				return fmt.Errorf("статус должен быть %s или %s", task.StatusPending, task.StatusCompleted)
			}
			if err := r.svc.UpdateStatus(cmd.Context(), args[0], status); err != nil {
				return userError(err)
			}
			renderSuccess(cmd.OutOrStdout(), "Статус: "+string(status))
			return nil
		},
	}
}

func (r *rootCommand) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Удалить задачу",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			gate := confirm.NewGate("delete", "Удалить задачу?", func(ctx context.Context) error {
				return r.svc.DeleteTask(ctx, id)
			})

			outcome, err := gate.Run(cmd.Context(), r.confirmer())
			if err != nil {
				return userError(err)
			}
			if outcome == confirm.OutcomeCancelled {
				renderMuted(cmd.OutOrStdout(), "Отменено")
				return nil
			}

			renderSuccess(cmd.OutOrStdout(), "Задача удалена: "+id)
			return nil
		},
	}
}
