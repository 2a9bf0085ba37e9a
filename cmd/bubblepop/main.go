package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/bubblepop"
	"github.com/phanxgames/bubblepop/ecs"
	"github.com/phanxgames/bubblepop/internal/config"
	"github.com/phanxgames/bubblepop/internal/logging"
	"github.com/phanxgames/bubblepop/internal/thought"
	"github.com/phanxgames/bubblepop/internal/tui"
)

var (
	configFile  string
	envFile     string
	seed        uint64
	debug       bool
	logLevel    string
	scriptFile  string
	screenshots string
	preset      string
	force       bool
)

// main registers the commands and runs the window frontend when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "bubblepop",
		Short:         "pop bubbles, waste time, receive wisdom",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&envFile, "env", ".env", "dotenv file holding "+config.APIKeyEnv)
	pf.Uint64Var(&seed, "seed", 0, "simulation seed (0 = random)")
	pf.BoolVar(&debug, "debug", false, "log per-frame timing")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&preset, "preset", "", "tuning preset")

	rootCmd.Flags().StringVar(&scriptFile, "script", "", "JSON test script to run, exiting when done")
	rootCmd.Flags().StringVar(&screenshots, "screenshots", "", "screenshot output directory")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list tuning presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
	configCmd.AddCommand(initCmd, presetsCmd)

	rootCmd.AddCommand(tuiCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (or defaults), applies flag overrides and
// the environment, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if screenshots != "" {
		cfg.ScreenshotDir = screenshots
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a configured scene plus the ECS world tallying its events.
type session struct {
	scene  *bubblepop.Scene
	logger logging.Logger
	world  donburi.World
	stats  *ecs.Stats
}

func newSession(cfg *config.Config, logOut *os.File) (*session, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if debug {
		level = logging.LevelDebug
	}
	logger := logging.New(level, logOut)

	var gen bubblepop.ThoughtGenerator
	if cfg.APIKey != "" {
		client, err := thought.New(cfg.APIKey,
			thought.WithModel(cfg.Thought.Model),
			thought.WithBaseURL(cfg.Thought.BaseURL),
			thought.WithTimeout(cfg.Thought.Timeout.Std()),
			thought.WithRetry(cfg.Retry()),
			thought.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		gen = client
	} else {
		logger.Warn(context.Background(), "no API key; deep thoughts disabled", logging.F("env", config.APIKeyEnv))
	}

	scene := bubblepop.NewScene()
	if cfg.Simulation.Seed != 0 {
		scene.SetSeed(cfg.Simulation.Seed)
	}
	scene.SetTuning(cfg.Tuning())
	scene.SetLogger(logger)
	scene.SetDebugMode(debug)
	scene.ScreenshotDir = cfg.ScreenshotDir
	scene.ShowHUD = cfg.Window.ShowFPS
	scene.SetPopup(bubblepop.NewPopup(gen,
		bubblepop.WithInterval(cfg.Popup.Interval.Std()),
		bubblepop.WithGenerateTimeout(generateBudget(cfg)),
	))

	world := donburi.NewWorld()
	scene.SetEventStore(ecs.NewDonburiStore(world))
	return &session{scene: scene, logger: logger, world: world, stats: ecs.NewStats(world)}, nil
}

// generateBudget bounds a whole popup request: every attempt at its own
// timeout plus every backoff wait.
func generateBudget(cfg *config.Config) time.Duration {
	r := cfg.Retry()
	budget := time.Duration(r.Attempts) * cfg.Thought.Timeout.Std()
	for i := 0; i < r.Attempts-1; i++ {
		budget += r.BaseDelay << i
	}
	return budget
}

// processEvents delivers queued scene events to the stats entity.
func (s *session) processEvents() {
	ecs.SceneEventType.ProcessEvents(s.world)
}

func (s *session) logSummary() {
	s.processEvents()
	st := s.stats.Get()
	s.logger.Info(context.Background(), "session over",
		logging.F("pops", st.Pops),
		logging.F("peak", st.Peak),
		logging.F("largest_radius", st.LargestR),
		logging.F("popups", st.Popups),
		logging.F("thoughts", st.Thoughts),
	)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := newSession(cfg, os.Stderr)
	if err != nil {
		return err
	}
	sess.scene.SetUpdateFunc(func() error {
		sess.processEvents()
		return nil
	})

	rc := bubblepop.RunConfig{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: cfg.Window.Resizable,
		ShowFPS:   cfg.Window.ShowFPS,
	}
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := bubblepop.LoadTestScript(data)
		if err != nil {
			return err
		}
		sess.scene.SetTestRunner(runner)
		rc.ExitWhenScriptDone = true
	}

	err = bubblepop.Run(sess.scene, rc)
	sess.logSummary()
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The terminal owns stdout and stderr while the program runs.
	logFile, err := os.OpenFile("bubblepop.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	sess, err := newSession(cfg, logFile)
	if err != nil {
		return err
	}
	err = tui.Run(sess.scene, sess.processEvents)
	sess.logSummary()
	return err
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "bubblepop.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
