package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/chrissnell/lickcalc/internal/log"
	"github.com/chrissnell/lickcalc/internal/server"
	"github.com/chrissnell/lickcalc/internal/store"
	"github.com/chrissnell/lickcalc/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "lickcalc.yaml", "Path to the YAML configuration file (defaults are used if it does not exist)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lickcalc %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(*debug, cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	for _, w := range cfg.Warnings() {
		log.Warnf("config: %s", w)
	}

	if err := run(cfg); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results server.ResultStore
	if cfg.Storage.Backend != "" {
		st, err := store.Open(ctx, cfg.Storage.Backend, cfg.Storage.DSN, log.Named("store"))
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		results = st
	} else {
		log.Infof("storage not configured; results will not be saved")
	}

	var wg sync.WaitGroup
	ctrl, err := server.NewController(ctx, &wg, cfg, results, log.Named("rest"))
	if err != nil {
		return fmt.Errorf("could not create REST server: %w", err)
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	wg.Wait()
	log.Infof("lickcalc stopped")
	return nil
}
