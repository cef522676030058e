package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nicolagi/tactbot/internal/compiler"
	"github.com/nicolagi/tactbot/internal/stdlib"
)

func main() {
	configPath := flag.String("config", libPath("config"), "path to configuration `file`")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	config := mustLoadConfig(*configPath)
	mustSetupLogging(*debug || config.Debug)
	builds := mustSetupDatabase()
	defer func() { _ = builds.Close() }()
	lib := mustLoadStdlib(config.StdlibDir)

	exec := &compiler.Exec{Binary: config.Compiler, Args: config.CompilerArgs}
	if err := exec.LookPath(); err != nil {
		// Builds will fail with a compiler error until the binary is installed.
		slog.Warn("Compiler not found", slog.String("binary", config.Compiler), slog.Any("error", err))
	}

	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		log.Fatalf("Could not connect to the Bot API: %v", err)
	}
	api.Debug = *debug || config.Debug
	slog.Info("Authorized", slog.String("account", api.Self.UserName))

	b := &bot{
		api:       api,
		compiler:  exec,
		stdlib:    lib,
		history:   builds,
		client:    &http.Client{Timeout: time.Minute},
		maxSource: config.MaxSourceBytes,
		timeout:   time.Duration(config.BuildTimeout),
		now:       time.Now,
	}
	if config.ListenAddr != "" {
		b.reports = newReportServer()
		if err := b.reports.addHistory(builds); err != nil {
			slog.Error("Could not add history", slog.Any("error", err))
		}
		go func() {
			if err := b.reports.listen(config.ListenAddr); err != nil {
				log.Fatalf("Could not listen on %q: %v", config.ListenAddr, err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	b.serve(ctx, updates, config.Workers)
	slog.Info("Stopped")
}

func libPath(name string) string {
	return os.ExpandEnv("$HOME/lib/tactbot/" + name)
}

// mustLoadConfig allows a missing file, as long as the token comes from the
// environment.
func mustLoadConfig(path string) *tgConfig {
	var r io.Reader
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		r = f
	case !errors.Is(err, fs.ErrNotExist):
		log.Fatalf("Could not open configuration file %q: %v", path, err)
	}
	config, err := loadConfig(r, os.Getenv)
	if err != nil {
		log.Fatalf("Could not load configuration from %q: %v", path, err)
	}
	return config
}

func mustSetupLogging(debug bool) {
	path := libPath("log")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		log.Fatalf("Could not open log file %q: %v", path, err)
	}
	log.SetOutput(f)
	setupLogging(f, debug)
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

func mustSetupDatabase() *history {
	path := libPath("history.bolt")
	h, err := openHistory(path)
	if err != nil {
		log.Fatalf("Could not open Bolt database file %q: %v", path, err)
	}
	return h
}

func mustLoadStdlib(dir string) *stdlib.FileSet {
	lib, err := stdlib.Load(dir)
	if err != nil {
		log.Fatalf("Could not load the standard library from %q: %v", dir, err)
	}
	slog.Info("Loaded standard library", slog.String("dir", dir), slog.Int("files", lib.Len()))
	return lib
}
