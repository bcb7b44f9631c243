// Package main implements tmp, the TrackMyProgress account CLI. It drives the
// session manager against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trackmyprogress/internal/config"
	"trackmyprogress/internal/logging"
	"trackmyprogress/internal/notify"
	"trackmyprogress/internal/session"
	"trackmyprogress/internal/storage"
)

var version = "dev"

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type cli struct {
	configPath string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "tmp",
		Short: "TrackMyProgress account CLI",
		Long: `tmp signs you in and out of TrackMyProgress.

The session and the local credential store live in the store selected by
STORE_DRIVER (bolt by default; memory, file, redis, mysql). Settings come from an
optional YAML file and environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.statusCmd(),
	)
	return root
}

// withManager opens the store, builds a manager and runs fn. Pending
// registration notifications are awaited before the store is closed.
func (c *cli) withManager(ctx context.Context, fn func(*session.Manager) error) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	policy, err := session.PolicyByName(cfg.PasswordPolicy)
	if err != nil {
		return err
	}

	manager, err := session.NewManager(ctx, store,
		session.WithLogger(logger),
		session.WithLatency(cfg.SimulatedLatency),
		session.WithPasswordPolicy(policy),
		session.WithNotifier(notify.New(cfg.APIBase, cfg.NotifyTimeout)),
		session.WithNotifyTimeout(cfg.NotifyTimeout),
	)
	if err != nil {
		return err
	}

	runErr := fn(manager)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.NotifyTimeout)
	defer cancel()
	if err := manager.Close(closeCtx); err != nil {
		logger.Debug("pending notifications abandoned", zap.Error(err))
	}
	return runErr
}

// report prints the manager's message for a failed operation.
func (c *cli) report(m *session.Manager, err error) error {
	if err == nil {
		return nil
	}
	msg := m.State().Error
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintln(c.stderr, msg)
	return errReported
}
