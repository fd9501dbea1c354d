// Package main runs the input demo: a circle driven by keyboard, d-pad or
// left stick, with controller rumble on A/B.
//
// Lifecycle: parse flags -> load config -> open input backend -> start the
// optional trace recorder and stats server -> run the frame loop until quit
// -> orderly shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"nakazima/padinput/internal/config"
	"nakazima/padinput/internal/demo"
	"nakazima/padinput/internal/info"
	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
	"nakazima/padinput/internal/trace"
	"nakazima/padinput/utils"
)

func init() {
	// GLFW calls must come from the main thread
	runtime.LockOSThread()
}

// cliConfig captures the flags. Zero values leave the config file untouched.
type cliConfig struct {
	ConfigPath string
	Backend    string
	FPS        int
	Deadzone   int
	TraceDir   string
	ReplayPath string
	LogPath    string
	SessionID  string
	StatsView  bool
}

// serviceBundle groups everything main has to shut down.
type serviceBundle struct {
	log      logger.LoggerInterface
	closeLog func() error
	session  *info.SessionInfo
	backend  *backend
	recorder *trace.Recorder
	trace    string
	stopView func()
}

func main() {
	cli := parseFlags()

	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	svcs, err := startServices(cfg, cli.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	quitKey, _ := cfg.QuitKey()
	quitButton, _ := cfg.QuitButton()
	tracker := input.NewTracker(svcs.backend.keys, svcs.backend.pad,
		input.WithDeadzone(cfg.Input.Deadzone),
		input.WithSlot(cfg.Input.Slot),
		input.WithLogger(svcs.log))

	loop := &demo.Loop{
		Tracker:    tracker,
		Scene:      demo.NewScene(cfg.Scene.Width, cfg.Scene.Height, cfg.Scene.Speed),
		Renderer:   &demo.LogRenderer{Logger: svcs.log},
		Logger:     svcs.log,
		FPS:        cfg.FPS,
		QuitKey:    quitKey,
		QuitButton: quitButton,
		Finished:   svcs.backend.finished,
	}
	if svcs.recorder != nil {
		loop.Recorder = svcs.recorder
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	runErr := loop.Run(ctx)
	cancel()
	if runErr != nil {
		svcs.log.Error(fmt.Sprintf("demo: %v", runErr))
	}

	if err := shutdown(svcs, tracker); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown encountered errors: %v\n", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}

	flag.StringVar(&cli.ConfigPath, "config", "", "YAML config file (optional)")
	flag.StringVar(&cli.Backend, "backend", "", "Input backend: xinput, hook, glfw or replay")
	flag.IntVar(&cli.FPS, "fps", 0, "Frame rate")
	flag.IntVar(&cli.Deadzone, "deadzone", -1, "Left stick deadzone (0-32767)")
	flag.StringVar(&cli.TraceDir, "trace", "", "Record an input trace into this directory")
	flag.StringVar(&cli.ReplayPath, "replay", "", "Replay this trace file (implies -backend replay)")
	flag.StringVar(&cli.LogPath, "log", "", "Log file (default stdout)")
	flag.StringVar(&cli.SessionID, "session-id", "", "Session id (default: random UUID)")
	flag.BoolVar(&cli.StatsView, "statsview", false, "Serve runtime statistics")
	flag.Parse()

	return cli
}

// loadConfig merges defaults, the config file and flags, in that order.
func loadConfig(cli *cliConfig) (*config.Config, error) {
	cfg := config.Default()
	if cli.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(cli.ConfigPath); err != nil {
			return nil, err
		}
	}

	if cli.Backend != "" {
		cfg.Backend = cli.Backend
	}
	if cli.ReplayPath != "" {
		cfg.Backend = config.BackendReplay
		cfg.Trace.Replay = cli.ReplayPath
	}
	if cli.FPS != 0 {
		cfg.FPS = cli.FPS
	}
	if cli.Deadzone >= 0 {
		if cli.Deadzone > 32767 {
			return nil, fmt.Errorf("deadzone %d out of range 0-32767", cli.Deadzone)
		}
		cfg.Input.Deadzone = int16(cli.Deadzone)
	}
	if cli.TraceDir != "" {
		cfg.Trace.Dir = cli.TraceDir
	}
	if cli.LogPath != "" {
		cfg.Logging.File = cli.LogPath
	}
	if cli.StatsView {
		cfg.StatsView.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func startServices(cfg *config.Config, sessionID string) (*serviceBundle, error) {
	svcs := &serviceBundle{
		log:      logger.StdoutLogger{},
		closeLog: func() error { return nil },
	}
	if cfg.Logging.File != "" {
		fileLog, err := logger.NewLogger(cfg.Logging.File)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		svcs.log = fileLog
		svcs.closeLog = fileLog.Close
	}
	svcs.log.Info("Logger initialized")

	svcs.session = info.NewSession(sessionID, cfg.Backend, svcs.log)
	svcs.session.PopulateDeviceInfo()
	svcs.log.Info(svcs.session.String())

	b, err := openBackend(cfg, svcs.log)
	if err != nil {
		_ = svcs.closeLog()
		return nil, err
	}
	svcs.backend = b
	svcs.log.Info(fmt.Sprintf("Input backend %q ready", cfg.Backend))

	if cfg.Trace.Dir != "" {
		if err := os.MkdirAll(cfg.Trace.Dir, 0o755); err != nil {
			b.close()
			_ = svcs.closeLog()
			return nil, fmt.Errorf("create trace dir: %w", err)
		}
		svcs.trace = filepath.Join(cfg.Trace.Dir, svcs.session.TraceFileName())
		rec, err := trace.NewRecorder(svcs.trace)
		if err != nil {
			b.close()
			_ = svcs.closeLog()
			return nil, err
		}
		svcs.recorder = rec
		svcs.log.Info(fmt.Sprintf("Recording input trace to %s", svcs.trace))
	}

	if cfg.StatsView.Enabled {
		svcs.stopView = demo.LaunchStatsView(cfg.StatsView.Addr, svcs.log)
	}
	return svcs, nil
}

// shutdown stops the stats server, finalises the trace, releases the input
// backend and closes the log last.
func shutdown(svcs *serviceBundle, tracker *input.Tracker) error {
	var firstErr error
	catch := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if svcs.stopView != nil {
		svcs.stopView()
	}

	// leave the motors off
	tracker.SetVibration(0, 0)

	if svcs.recorder != nil {
		if err := svcs.recorder.Close(); err != nil {
			catch(err)
			svcs.log.Error(fmt.Sprintf("close trace failed: %v", err))
		} else {
			size, _ := utils.GetFileSizeMB(svcs.trace)
			svcs.log.Info(fmt.Sprintf("Trace closed: %d frames, %d dropped, %.2f MB",
				svcs.recorder.Written(), svcs.recorder.Dropped(), size))
		}
	}

	svcs.backend.close()
	svcs.log.Info(fmt.Sprintf("Session %s finished after %d frames", svcs.session.SessionID, tracker.Frame()))

	catch(svcs.closeLog())
	return firstErr
}
