// Package app runs a scene in a window until it is closed.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/kjkrol/glscene/internal/renderer"
	"github.com/kjkrol/glscene/pkg/gfx"
	"github.com/kjkrol/glscene/pkg/scene"
)

// LogLevelEnv names the variable Main reads its log level from.
const LogLevelEnv = "GLSCENE_LOG_LEVEL"

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	logger   *slog.Logger
	strategy gfx.EventsConsumerStrategy
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStrategy sets how many queued events are handled per frame.
// The default drains the queue.
func WithStrategy(s gfx.EventsConsumerStrategy) Option {
	return func(o *options) { o.strategy = s }
}

// Run opens the scene's window, renders it until the window closes or ctx
// is done and releases everything it created.
func Run(ctx context.Context, sc *scene.Scene, opts ...Option) (err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		gfx.SetLogger(o.logger)
	}
	log := gfx.Logger().With("scene", sc.Name)

	win, err := gfx.NewWindow(sc.WindowConfig())
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := renderer.NewDevice()
	if err != nil {
		return err
	}
	log.Info("device ready", "gl", dev.Version())

	p := newPlayer(dev, sc)
	width, height := win.Size()
	if err := p.setup(width, height); err != nil {
		return err
	}
	defer func() {
		if derr := p.teardown(); derr != nil && err == nil {
			err = derr
		}
	}()

	log.Info("running", "width", width, "height", height)
	return win.Run(ctx, p.tick, p.handle, o.strategy)
}

// Main runs the named built-in scene and exits the process: 0 after a
// normal shutdown, -1 on any error.
func Main(name string) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(os.Getenv(LogLevelEnv)),
	}))
	os.Exit(run(name, logger))
}

func run(name string, logger *slog.Logger) int {
	sc, err := scene.Builtin(name)
	if err != nil {
		logger.Error("load scene", "name", name, "err", err)
		return -1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, sc, WithLogger(logger)); err != nil {
		logger.Error("run scene", "name", name, "err", err)
		return -1
	}
	return 0
}

func logLevel(v string) slog.Level {
	var lvl slog.Level
	if v == "" || lvl.UnmarshalText([]byte(strings.TrimSpace(v))) != nil {
		return slog.LevelInfo
	}
	return lvl
}
