package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-quote/internal/config"
	"github.com/iwvelando/loan-quote/internal/server"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		config   config.LoggingConfig
		override string
		wantErr  bool
	}{
		{"defaults", config.LoggingConfig{}, "", false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"invalid level", config.LoggingConfig{Level: "loud"}, "", true},
		{"invalid format", config.LoggingConfig{Format: "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quote.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	require.NoError(t, err)
	logger.Info("hello", zap.String("op", "test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(&validation.InputError{Field: "principal"}))
	assert.Equal(t, 2, exitCode(validation.ErrDivisionByZero))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, "quote", "--principal", "100000", "--rate", "12", "--term", "12",
		"--locale", "en-US", "--currency", "USD")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly payment: $8,884.88")
	assert.Contains(t, out, "Total payment:   $106,618.55")
}

func TestQuoteCommandCSVSchedule(t *testing.T) {
	out, err := execute(t, "quote", "--principal", "100000", "--rate", "12", "--term", "12",
		"--schedule", "--start", "2025-01", "--output-format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, `"quote","8884.88","106618.55","6618.55"`)
	assert.Contains(t, out, `"quote","12","2025-12","8884.85"`)
}

func TestQuoteCommandInvalid(t *testing.T) {
	_, err := execute(t, "quote", "--principal", "0", "--rate", "12", "--term", "12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalidInput))
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, "quote", "--principal", "1000")
	assert.Error(t, err, "rate and term are required")
}

func TestEligibilityCommand(t *testing.T) {
	out, err := execute(t, "eligibility", "--property-value", "280000000", "--requested", "140000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Max loan amount: TSh 196,000,000")
	assert.Contains(t, out, "Loan to value:   50.00%")
	assert.Contains(t, out, "Headroom:        TSh 56,000,000")
	assert.Contains(t, out, "Eligible:        true")
}

func TestEligibilityCommandZeroProperty(t *testing.T) {
	_, err := execute(t, "eligibility", "--property-value", "0", "--requested", "1000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrDivisionByZero))
	assert.Equal(t, 2, exitCode(err))
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	contents := `currency:
  locale: en-US
  code: USD
quotes:
  - name: car
    active: true
    principal: 20000
    annualRate: 4
    termMonths: 60
  - name: parked
    active: false
    principal: 1000
    annualRate: 4
    termMonths: 12
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	out, err := execute(t, "batch", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--- Results for quote car ---")
	assert.NotContains(t, out, "parked")

	out, err = execute(t, "batch", "--config", path, "--output-format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)

	_, err = execute(t, "batch", "--config", path, "--output-format", "xml")
	assert.Error(t, err)

	_, err = execute(t, "batch", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestROICommand(t *testing.T) {
	out, err := execute(t, "roi", "--principal", "1000", "--rate", "12", "--months", "12",
		"--locale", "en-US", "--currency", "USD")
	require.NoError(t, err)
	assert.Contains(t, out, "Invested:     $1,000.00")
	assert.Contains(t, out, "ROI:          12.68%")
}

func TestServe(t *testing.T) {
	cfg, err := server.LoadConfig("")
	require.NoError(t, err)
	cfg.Address = "127.0.0.1:0"
	cfg.Version = "test"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, zap.NewNop(), cfg, ready)
	}()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}

func TestServeListenFailure(t *testing.T) {
	cfg, err := server.LoadConfig("")
	require.NoError(t, err)
	cfg.Address = "256.0.0.1:bad"
	assert.Error(t, serve(context.Background(), zap.NewNop(), cfg, nil))
}
