package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-quote/internal/config"
	"github.com/iwvelando/loan-quote/internal/quote"
	"github.com/iwvelando/loan-quote/internal/server"
	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/eligibility"
	"github.com/iwvelando/loan-quote/pkg/finance"
	"github.com/iwvelando/loan-quote/pkg/format"
	"github.com/iwvelando/loan-quote/pkg/output"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newQuoteCmd(root *rootOptions) *cobra.Command {
	var (
		q            config.Quote
		currency     config.CurrencyConfig
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a single loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, root.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			profile, err := format.ResolveProfile(currency.Locale, currency.Code)
			if err != nil {
				return err
			}

			q.Name = "quote"
			q.Active = true
			result := quote.NewEvaluator(logger, profile, constants.DefaultCeilingRatio).Evaluate(q)
			if result.Err != nil {
				return result.Err
			}

			results := []quote.Result{result}
			if err := output.Write(cmd.OutOrStdout(), outputFormat, results); err != nil {
				return err
			}
			if outputFormat == constants.OutputFormatCSV && result.Schedule != nil {
				output.ScheduleCsvFormat(cmd.OutOrStdout(), results)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&q.Principal, "principal", 0, "amount borrowed")
	flags.Float64Var(&q.AnnualRate, "rate", 0, "annual nominal interest rate in percent")
	flags.IntVar(&q.TermMonths, "term", 0, "number of monthly installments")
	flags.Float64Var(&q.PropertyValue, "property-value", 0, "collateral value for an eligibility check")
	flags.BoolVar(&q.Schedule, "schedule", false, "include the amortization schedule")
	flags.StringVar(&q.StartDate, "start", "", "month of the first installment (YYYY-MM)")
	flags.StringVar(&currency.Locale, "locale", constants.DefaultLocale, "locale for formatted amounts")
	flags.StringVar(&currency.Code, "currency", constants.DefaultCurrencyCode, "ISO 4217 currency code")
	flags.StringVar(&outputFormat, "output-format", constants.OutputFormatPretty, "type of output: pretty, csv")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func newEligibilityCmd(root *rootOptions) *cobra.Command {
	var (
		propertyValue, requested, ceiling float64
		currency                          config.CurrencyConfig
	)
	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Derive the maximum loan against a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, root.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			assessment, err := eligibility.Assess(requested, propertyValue, ceiling)
			if err != nil {
				return err
			}
			maxLoan, err := format.FormatCurrency(assessment.MaxLoanAmount, currency.Locale, currency.Code)
			if err != nil {
				return err
			}
			headroom, err := format.FormatCurrency(assessment.Headroom, currency.Locale, currency.Code)
			if err != nil {
				return err
			}

			logger.Debug("eligibility assessed",
				zap.String("op", "main.eligibility"),
				zap.Float64("ceilingRatio", assessment.CeilingRatio),
			)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Max loan amount: %s\n", maxLoan)
			fmt.Fprintf(w, "Loan to value:   %.2f%%\n", assessment.LoanToValue)
			fmt.Fprintf(w, "Headroom:        %s\n", headroom)
			fmt.Fprintf(w, "Eligible:        %t\n", assessment.Eligible)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&propertyValue, "property-value", 0, "appraised value of the collateral")
	flags.Float64Var(&requested, "requested", 0, "requested loan amount")
	flags.Float64Var(&ceiling, "ceiling", constants.DefaultCeilingRatio, "share of the property value that may be lent")
	flags.StringVar(&currency.Locale, "locale", constants.DefaultLocale, "locale for formatted amounts")
	flags.StringVar(&currency.Code, "currency", constants.DefaultCurrencyCode, "ISO 4217 currency code")
	_ = cmd.MarkFlagRequired("property-value")
	return cmd
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	var configLocation, outputFormatFlag string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every active quote in a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}

			logger, err := initializeLogger(conf.Logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			// CLI override takes precedence over config
			outputFormat := conf.Output.Format
			if outputFormatFlag != "" {
				outputFormat = outputFormatFlag
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.batch"),
				)
			}

			results, err := quote.Run(logger, *conf)
			if err != nil {
				return fmt.Errorf("failed to evaluate quotes: %w", err)
			}
			return output.Write(cmd.OutOrStdout(), outputFormat, results)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv")
	return cmd
}

func newROICmd(root *rootOptions) *cobra.Command {
	var (
		in       finance.ProjectionInput
		currency config.CurrencyConfig
	)
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Project the return on an investment stake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, root.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			projection, err := finance.NewProjectionProcessor(logger).Project(in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, line := range []struct {
				label  string
				amount float64
			}{
				{"Invested:     ", projection.Invested},
				{"Final value:  ", projection.FinalValue},
				{"Total growth: ", projection.TotalGrowth},
				{"Total tax:    ", projection.TotalTax},
			} {
				amount, err := format.FormatCurrency(line.amount, currency.Locale, currency.Code)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s%s\n", line.label, amount)
			}
			fmt.Fprintf(w, "ROI:          %.2f%%\n", projection.ROIPercent)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Name, "name", "stake", "label for the projection")
	flags.Float64Var(&in.Principal, "principal", 0, "initial stake")
	flags.Float64Var(&in.AnnualReturnRate, "rate", 0, "expected annual return in percent")
	flags.IntVar(&in.Months, "months", 0, "projection horizon in months")
	flags.Float64Var(&in.TaxRate, "tax", 0, "tax on gains in percent")
	flags.Float64Var(&in.MonthlyContribution, "contribution", 0, "amount added every month after the first")
	flags.StringVar(&currency.Locale, "locale", constants.DefaultLocale, "locale for formatted amounts")
	flags.StringVar(&currency.Code, "currency", constants.DefaultCurrencyCode, "ISO 4217 currency code")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var configLocation, address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(configLocation)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}
			if cfg.Version == "" {
				cfg.Version = version
			}

			logger, err := initializeLogger(cfg.Logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, cfg, nil)
		},
	}

	cmd.Flags().StringVar(&configLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

// serve runs the HTTP server until ctx is done and then drains in-flight
// requests. ready, when set, receives the bound address once listening.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config, ready chan<- string) error {
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	srv := &http.Server{
		Handler:           server.NewHandler(logger, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	logger.Info("server listening",
		zap.String("op", "main.serve"),
		zap.String("address", listener.Addr().String()),
		zap.String("version", cfg.Version),
	)
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()
	logger.Info("shutting down server", zap.String("op", "main.serve"))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
