// Command ggstream-server streams a demo scene to remote clients.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		host       = flag.String("host", "", "listen host (overrides config)")
		port       = flag.Int("port", 0, "listen port (overrides config)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
		windows    = flag.Int("windows", 2, "number of demo windows")
	)
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	ggstream.SetLogger(logger)

	demo := &demoToolkit{windows: *windows}
	srv := server.New(cfg, demo)
	if err := demo.attach(srv); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
