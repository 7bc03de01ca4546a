package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"motorline/internal/billing"
	"motorline/internal/config"
	"motorline/internal/db"
	"motorline/internal/gateway"
	"motorline/internal/logger"
	"motorline/internal/migrate"
	"motorline/internal/repo"
	"motorline/internal/server"
	"motorline/internal/valuation"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "serve", Short: "Start a Motorline service"}
	cmd.AddCommand(serveGatewayCmd())
	cmd.AddCommand(serveValuationCmd())
	cmd.AddCommand(serveSentimentCmd())
	cmd.AddCommand(serveFinanceCmd())
	cmd.AddCommand(serveBillingCmd())
	return cmd
}

func serveGatewayCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Start the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServeContext()
			if err != nil {
				return err
			}
			timeout := time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second
			client := gateway.New(timeout, log)
			handler := server.NewGateway(server.GatewayConfig{
				Client:      client,
				CarValueURL: cfg.Gateway.CarValueURL,
				ReviewURL:   cfg.Gateway.ReviewURL,
				Log:         log,
			})
			return runServer(cmd.Context(), pick(addr, cfg.Gateway.Addr), "gateway", handler, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func serveValuationCmd() *cobra.Command {
	var addr, dataset string
	cmd := &cobra.Command{
		Use:   "valuation",
		Short: "Start the valuation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServeContext()
			if err != nil {
				return err
			}
			est, err := valuation.NewEstimator(pick(dataset, cfg.Valuation.DatasetPath))
			if err != nil {
				return fmt.Errorf("train valuation model: %w", err)
			}
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			handler := server.NewValuation(server.ValuationConfig{
				Estimator: est,
				Repo:      repo.Repo{DB: conn},
				Log:       log,
			})
			return runServer(cmd.Context(), pick(addr, cfg.Valuation.Addr), "valuation", handler, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "training CSV path (default embedded dataset)")
	return cmd
}

func serveSentimentCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Start the sentiment service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServeContext()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), pick(addr, cfg.Sentiment.Addr), "sentiment", server.NewSentiment(log), log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func serveFinanceCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Start the finance service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServeContext()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), pick(addr, cfg.Finance.Addr), "finance", server.NewFinance(log), log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func serveBillingCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Start the billing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServeContext()
			if err != nil {
				return err
			}
			var ledger billing.Ledger
			switch cfg.Billing.Store {
			case "sqlite":
				conn, err := openDB()
				if err != nil {
					return err
				}
				defer conn.Close()
				ledger = billing.SQLiteLedger{Repo: repo.Repo{DB: conn}}
			default:
				ledger = billing.NewMemoryLedger()
			}
			handler := server.NewBilling(server.BillingConfig{Ledger: ledger, Log: log})
			return runServer(cmd.Context(), pick(addr, cfg.Billing.Addr), "billing", handler, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func loadServeContext() (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func openDB() (*sql.DB, error) {
	conn, err := db.Open(viper.GetString("workspace"))
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func runServer(ctx context.Context, addr, role string, handler http.Handler, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("role", role).Str("addr", addr).Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
