package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/fystack/appstate/pkg/common/config"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/events"
	"github.com/fystack/appstate/pkg/infra"
	"github.com/fystack/appstate/pkg/kvstore"
	"github.com/fystack/appstate/pkg/storage"
)

// setup loads configuration and initializes logging. Logs go to stderr so
// command output stays machine readable.
func setup(g *Globals) *config.Config {
	cfg, err := config.Load(g.Config)
	if err != nil {
		slog.Error("Load config failed", "err", err)
		os.Exit(1)
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if g.Debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		Writer:     os.Stderr,
		TimeFormat: time.RFC3339,
	})
	logger.Debug("Config loaded", "store", cfg.Store.Directory, "backend", cfg.Store.Backend.Type)
	return cfg
}

// session is a debounced store plus the emitter its flush events go to.
type session struct {
	*storage.Store
	emitter events.Emitter
}

func newSession(backend kvstore.Backend, debounce time.Duration, pub events.Publisher, subjectPrefix string) *session {
	sess := &session{}
	opts := []storage.Option{storage.WithDebounce(debounce)}
	if pub != nil {
		sess.emitter = events.NewEmitter(pub, subjectPrefix)
		opts = append(opts, storage.WithFlushHook(events.FlushHook(sess.emitter, backend.GetName())))
	}
	sess.Store = storage.NewWithBackend(backend, opts...)
	return sess
}

// Close flushes pending writes, then drains the emitter so the final flush
// event is delivered before the process exits.
func (s *session) Close() error {
	err := s.Store.Close()
	if s.emitter != nil {
		s.emitter.Close()
	}
	return err
}

// openStore builds the configured backend and wraps it in a debounced
// store. A failure here is fatal.
func openStore(cfg *config.Config) *session {
	backend, err := kvstore.NewFromConfig(cfg.Store.Backend, cfg.Store.Directory)
	if err != nil {
		logger.Fatal("Open store failed", "dir", cfg.Store.Directory, "err", err)
	}

	var pub events.Publisher
	if cfg.Nats.URL != "" {
		nc, err := infra.GetNATSConnection(cfg.Nats, cfg.Environment)
		if err != nil {
			logger.Warn("NATS unavailable, flush events disabled", "err", err)
		} else {
			pub = nc
		}
	}
	return newSession(backend, cfg.Store.Debounce, pub, cfg.Nats.SubjectPrefix)
}

func printJSON(v any) error {
	data, err := infra.JSON.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

type GetCmd struct {
	Key     string `arg:"" help:"Key to read."`
	Default string `help:"JSON value printed when the key is missing or unreadable." default:"null"`
}

func (c *GetCmd) Run(g *Globals) error {
	var def any
	if err := infra.JSON.Unmarshal([]byte(c.Default), &def); err != nil {
		return fmt.Errorf("--default is not valid JSON: %w", err)
	}

	store := openStore(setup(g))
	defer store.Close()

	return printJSON(store.GetItem(c.Key, def))
}

type SetCmd struct {
	Key    string `arg:"" help:"Key to write."`
	Value  string `arg:"" help:"JSON value to store."`
	String bool   `help:"Store VALUE as a plain string instead of parsing it as JSON." name:"string"`
}

func (c *SetCmd) Run(g *Globals) error {
	var value any = c.Value
	if !c.String {
		if err := infra.JSON.Unmarshal([]byte(c.Value), &value); err != nil {
			return fmt.Errorf("value is not valid JSON (use --string for plain text): %w", err)
		}
	}

	store := openStore(setup(g))
	store.SetItem(c.Key, value)
	// Close flushes immediately instead of waiting for the debounce timer.
	return store.Close()
}

type KeysCmd struct{}

func (c *KeysCmd) Run(g *Globals) error {
	store := openStore(setup(g))
	defer store.Close()

	keys, err := store.Keys()
	if err != nil {
		return err
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

type WatchCmd struct{}

func (c *WatchCmd) Run(g *Globals) error {
	store := openStore(setup(g))
	defer store.Close()

	fs, ok := store.Backend().(*kvstore.FileStore)
	if !ok {
		return errors.New("watch requires the file backend")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Watching store... Press Ctrl+C to stop", "dir", fs.Dir())
	return fs.Watch(ctx, func(key string) {
		value := store.GetItem(key, nil)
		data, err := infra.JSON.Marshal(value)
		if err != nil {
			logger.Error("Failed to encode value", "key", key, "err", err)
			return
		}
		fmt.Printf("%s\t%s\n", key, data)
	})
}
