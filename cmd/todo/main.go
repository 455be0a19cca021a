package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoTracker/internal/app"
	"todoTracker/internal/cli"
	"todoTracker/internal/config"
	"todoTracker/internal/logger"
	"todoTracker/internal/overdue"
	"todoTracker/internal/repository"
	"todoTracker/internal/service"
)

func openService(ctx context.Context, configPath string) (cli.Service, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("конфигурация: %w", err)
	}
	// в терминал пишем только при development, иначе логи мешают выводу
	if cfg.Logging.Development {
		if err := logger.Init(true); err != nil {
			return nil, nil, fmt.Errorf("инициализация логгера: %w", err)
		}
	}

	// память процесса не переживает вызов команды
	if cfg.Repository.Type == config.RepoInMemory {
		cfg.Repository.Type = config.RepoSQLite
	}

	s, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewTaskRepository(s)
	svc := service.NewTaskService(repo, overdue.NewEvaluator(repo))

	return svc, func() error {
		logger.Sync()
		return s.Close()
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(openService, cli.HuhAsker{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
