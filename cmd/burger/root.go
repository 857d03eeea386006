package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stellarburger/internal/api"
	"stellarburger/internal/config"
	"stellarburger/internal/credentials"
	"stellarburger/internal/logging"
	"stellarburger/internal/monitoring"
	"stellarburger/internal/store"
)

// cli holds the state shared by every command
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "burger",
		Short: "Stellar Burgers storefront client",
		Long: `burger drives the storefront state engine from the command line:
browse the catalog, build and order burgers, follow the live order feed
and manage the customer profile. "burger sandbox" runs a local backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.LogLevel = "debug"
			}
			logger, err := logging.New(cfg.LogLevel, cfg.Development)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "configs/burger.yaml", "Path to configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.catalogCmd(),
		c.feedCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.profileCmd(),
		c.forgotPasswordCmd(),
		c.resetPasswordCmd(),
		c.orderCmd(),
		c.ordersCmd(),
		c.showCmd(),
		c.sandboxCmd(),
	)
	return root
}

// openCredentials opens the configured credential storage
func (c *cli) openCredentials() (*credentials.Vault, func() error, error) {
	if c.cfg.Credentials.Driver == "memory" {
		return credentials.NewVault(credentials.NewMemoryStorage()), func() error { return nil }, nil
	}
	storage, err := credentials.OpenSQL(c.cfg.Credentials.Driver, c.cfg.Credentials.DSN)
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewVault(storage), storage.Close, nil
}

// withStore builds a store, restores the session and runs fn.
func (c *cli) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	vault, closeVault, err := c.openCredentials()
	if err != nil {
		return err
	}
	defer closeVault()

	client := api.NewHTTPClient(c.cfg.APIURL, vault, c.cfg.Timeout)
	s := store.New(client, vault,
		store.WithLogger(c.logger),
		store.WithMonitor(monitoring.NewMonitor()),
	)
	if err := s.Bootstrap(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return fn(ctx, s)
}
