// Package commands implements the metasql subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/metastack-labs/metasql/internal/config"
)

// Env carries the loaded configuration and logger into commands.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
}

type envKey struct{}

// WithEnv stores the command environment in the context.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// EnvFrom retrieves the command environment, defaulting to an empty config
// when the root command did not run (tests invoking a command directly).
func EnvFrom(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	return &Env{Config: &config.Config{Output: config.DefaultOutput}, Logger: slog.Default()}
}
