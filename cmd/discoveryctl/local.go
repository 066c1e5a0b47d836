package main

import (
	"context"
	"fmt"

	service "github.com/kaspa-ecosystem/discovery/internal/app"
	"github.com/kaspa-ecosystem/discovery/internal/config"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/spf13/cobra"
)

// Flags shared by the commands that run the core in-process.
var (
	projectsFile string
	sessionID    string
	verbose      bool
)

func init() {
	for _, c := range []*cobra.Command{rankCmd, profileCmd} {
		c.Flags().StringVar(&projectsFile, "projects", "", "read projects from this JSON file instead of the configured source")
		c.Flags().StringVar(&sessionID, "session", "", "interaction session to load (default from config)")
		c.Flags().BoolVarP(&verbose, "verbose", "v", false, "log service activity to stderr")
	}
}

// withService loads the configuration, applies the local flags, and runs fn
// against a started service.
func withService(ctx context.Context, cmd *cobra.Command, fn func(*service.Service) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if projectsFile != "" {
		cfg.ProjectsSource = config.SourceFile
		cfg.ProjectsFile = projectsFile
	}
	if sessionID != "" {
		cfg.SessionID = sessionID
	}

	log := logger.Nop()
	if verbose {
		if err := logger.InitWith(cmd.ErrOrStderr(), logger.Format(cfg.LogFormat)); err != nil {
			return err
		}
		_ = logger.SetLevelString(cfg.LogLevel)
		log = logger.Get()
	}
	svc := service.New(cfg, service.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()
	return fn(svc)
}
