package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	imageeditor "github.com/Skryldev/image-editor"
	"github.com/Skryldev/image-editor/adapters/vips"
	"github.com/Skryldev/image-editor/config"
	"github.com/Skryldev/image-editor/core"
	"github.com/Skryldev/image-editor/hooks"
	"github.com/Skryldev/image-editor/shell"
)

var rootCmd = &cobra.Command{
	Use:               "imageeditor",
	Short:             "Interactive image editor with size-targeted JPEG output",
	SilenceUsage:      true,
	PersistentPreRunE: appPersistentPreRun,
	RunE:              runShell,
}

var (
	configPath string
	logLevel   string
	cfg        config.Config
	logger     *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file (TOML)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&logLevel, "level", "l",
		"", "Log level (debug, info, warn, error)",
	)
}

func appPersistentPreRun(_ *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err = config.Validate(cfg); err != nil {
		return err
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: hooks.ParseLevel(cfg.LogLevel),
	}))
	logger.Debug("configuration loaded", "path", configPath, "backend", cfg.Backend)
	return nil
}

// newEditor builds the Editor for cfg.  The returned cleanup must be called
// once the editor is no longer used.
func newEditor() (*imageeditor.Editor, func(), error) {
	opts := []imageeditor.Option{imageeditor.WithLogger(hooks.NewSlogLogger(logger))}
	cleanup := func() {}

	if cfg.Backend == config.BackendVips {
		backend := vips.NewBackend(vips.BackendConfig{MaxPixels: cfg.Decode.MaxPixels})
		opts = append(opts, imageeditor.WithCodecs(func(reg core.Registry) {
			vips.RegisterBackend(reg, backend)
		}))
		cleanup = backend.Shutdown
	}

	ed, err := imageeditor.New(cfg, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return ed, cleanup, nil
}

func runShell(c *cobra.Command, _ []string) error {
	ed, cleanup, err := newEditor()
	if err != nil {
		return err
	}
	defer cleanup()

	return shell.New(ed, colorable.NewColorableStdout()).Run(c.Context(), os.Stdin)
}
