package main

import (
	"fmt"
	"strings"

	"pairplan/internal/config"
	"pairplan/internal/logging"
	"pairplan/internal/output"
	"pairplan/internal/plan"
	"pairplan/internal/service"
	"pairplan/internal/storage"
)

// env bundles the open database and service each command runs against.
type env struct {
	cfg    *config.Config
	logger *logging.Logger
	db     *storage.DB
	svc    *service.Service
	format output.Format
}

// openEnv loads the config, opens the database, and wires the service.
// Callers must Close.
func openEnv() (*env, error) {
	cfg, err := config.Load(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(level),
	})

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(rootFlag, logger)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		db:     db,
		svc:    service.New(db, logger, cfg.Allocation.BinderSize),
		format: format,
	}, nil
}

// Close releases the database.
func (e *env) Close() {
	_ = e.db.Close()
}

// resolveCable accepts a cable id or a unique cable name.
func (e *env) resolveCable(ref string) (*plan.Cable, error) {
	cables, err := e.svc.Cables()
	if err != nil {
		return nil, err
	}

	var byName *plan.Cable
	matches := 0
	for _, c := range cables {
		if c.ID == ref {
			return c, nil
		}
		if strings.EqualFold(c.Name, ref) {
			byName = c
			matches++
		}
	}
	if matches == 1 {
		return byName, nil
	}
	if matches > 1 {
		return nil, fmt.Errorf("cable name %q is ambiguous, use the id", ref)
	}
	return nil, fmt.Errorf("no cable with id or name %q", ref)
}

// printJSON renders v for --format=json.
func printJSON(v interface{}) error {
	data, err := output.EncodeJSON(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
