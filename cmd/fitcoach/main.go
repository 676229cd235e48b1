package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/NicolasHaas/fitcoach/pkg/config"
	"github.com/NicolasHaas/fitcoach/pkg/kv"
	"github.com/NicolasHaas/fitcoach/pkg/logging"
	"github.com/NicolasHaas/fitcoach/pkg/version"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "YAML config file")
	envFile := flag.String("env", ".env", "Optional .env file with FITCOACH_* variables")
	apiURL := flag.String("api", "", "Backend base URL (overrides config)")
	storagePath := flag.String("storage", "", "SQLite storage file (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile, config.Flags{
		APIURL:      *apiURL,
		StoragePath: *storagePath,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
	}.Apply)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	if args[0] == "version" {
		fmt.Println(version.Full())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := openStorage(ctx, cfg.StoragePath, cfg.StoragePassphrase)
	if err != nil {
		slog.Error("open storage", "path", cfg.StoragePath, "err", err)
		os.Exit(1)
	}

	a := newApp(cfg, st, os.Stdout, os.Stdin)
	err = a.run(ctx, args)
	a.close()
	if err != nil {
		slog.Error(args[0]+" failed", "err", err)
		os.Exit(1)
	}
}

// openStorage opens the SQLite file, sealing the token when a passphrase is set.
func openStorage(ctx context.Context, path, passphrase string) (kv.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	db, err := kv.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if passphrase == "" {
		return db, nil
	}
	sealed, err := kv.NewSealed(ctx, db, passphrase, kv.KeyToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return sealed, nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: fitcoach [flags] <command> [command flags]

Commands:
  login       -email -password    log in and store the session
  signup      -name -email -password -role client|trainer
  logout                          clear the stored session
  status                          show who is logged in
  profile     [-cached]           show (and cache) the profile
  clients     [-assign email]     list or add clients (trainer)
  plans                           list workout plans
  diets                           list diet plans
  log-weight  -kg 80.5 [-note ..] record a weight entry (client)
  trend       [-client id]        weight trend path and summary
  dashboard                       home screen summary for the role
  version                         print version information

Flags:
`)
	flag.PrintDefaults()
}
