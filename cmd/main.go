package main

import (
	"botleague/config"
	"botleague/core"
	"botleague/pkg/types"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// init context for graceful shutdown
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load config
	cfg, err := config.LoadConfig(rootCtx, config.Env.EnvName, config.Env.ConfigMode)
	if err != nil {
		log.Fatalf("fail to load config: %v", err)
	}
	configureLog(config.Env.EnvName, cfg.Log)

	// 📊 core: botleague module
	universe, err := core.Bootstrap(*cfg)
	if err != nil {
		log.Panicf("fail to bootstrap app: %v", err)
	}
	defer universe.Close()

	go func() {
		if err := core.Run(rootCtx, universe); err != nil {
			log.Errorf("Runtime error: %v", err)
			cancel()
		}
	}()

	// 🌩️ fiber: rest API module
	fApp := core.SetupFiberApp(universe)

	// trap signal for graceful shutdown
	setupSignalHandler(cancel)
	go func() {
		<-rootCtx.Done()
		core.ShutdownFiberApp(fApp)
	}()

	if err := fApp.Listen(cfg.Server.Addr); err != nil {
		log.Panic(err)
	}
}

func configureLog(envName types.EnvName, cfg config.LogConfig) {
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if envName == types.EnvLocal || envName == types.EnvDev {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.Level != "" {
		if level, err := log.ParseLevel(cfg.Level); err == nil {
			log.SetLevel(level)
		} else {
			log.Warnf("unknown log level '%v'", cfg.Level)
		}
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)
}

func setupSignalHandler(cancel context.CancelFunc) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigC
		log.Info("🚩 received shutdown signal")
		cancel()
	}()
}
