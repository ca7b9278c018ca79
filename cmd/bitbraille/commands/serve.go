package commands

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"bitbraille/internal/config"
	"bitbraille/internal/feed"
	"bitbraille/internal/hal"
	"bitbraille/internal/logger"
	"bitbraille/internal/printer"
	"bitbraille/internal/render"
	"bitbraille/internal/report"
	"bitbraille/internal/server"
	"bitbraille/internal/trainer"
)

// resultQueueSize is how many judged answers may wait for slow reporters
// before new ones are dropped.
const resultQueueSize = 32

var (
	serveConfigPath string
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trainer",
	Long: `Run the trainer on this machine.

On a Raspberry Pi the buttons, buzzers, status LED and joystick are driven
through GPIO and I2C.  Elsewhere a stand-in board is used and the trainer can
be driven through the test input API (set test_input in the config).

The configuration file is created with defaults if it does not exist.  Files
ending in .yaml or .yml are read as YAML, anything else as JSON.

Examples:
  bitbraille serve
  bitbraille serve --config /etc/bitbraille.yaml -v`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Echo events to standard output")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	cfgMgr := config.NewConfigManager(serveConfigPath)
	if err := cfgMgr.Load(); err != nil {
		return printer.Error(stderr, "Failed to load configuration", err.Error(),
			fmt.Sprintf("Fix or remove %s to start from the defaults", cfgMgr.Path()))
	}
	cfg := cfgMgr.Get()

	events := logger.NewEventLogger(cfg.LogFile)
	if serveVerbose {
		events.Echo(cmd.OutOrStdout())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board, err := hal.Open(cfg.Pins, events)
	if err != nil {
		return printer.Error(stderr, "Failed to open the board", err.Error(),
			"Check the pins section of the configuration",
			"Build with -tags disablegpio to run without hardware")
	}
	defer board.Close()

	console := render.NewConsole(cmd.OutOrStdout())
	console.Message("Searching WIFI...")

	var reporters []report.Reporter
	var client *redis.Client
	if cfg.Redis.Enabled {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return printer.Error(stderr, "Failed to connect to Redis", err.Error(),
				fmt.Sprintf("Start a Redis server at %s", cfg.Redis.Addr),
				"Set redis.enabled to false in the configuration")
		}
		if cfg.Redis.ResultChannel != "" {
			reporters = append(reporters, report.RedisReporter{Client: client, Channel: cfg.Redis.ResultChannel})
		}
	}

	results := report.NewQueue(events, resultQueueSize, reporters...)
	t := trainer.New(cfg.TrainerConfig(), console, board, board.Victory(), board.Defeat(),
		trainer.WithLogger(events),
		trainer.WithResults(results.Enqueue),
	)
	srv := server.New(cfgMgr, t, events)

	addr, scheme := server.Addr(cfg)
	console.Message(fmt.Sprintf("%s://%s%s", scheme, localAddress(), addr))
	board.SetStatusLED(true)
	console.Message("BitBraille")
	events.Log("started %s", versionString())

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				events.Log("%s stopped: %v", name, err)
				stop()
			}
		}()
	}
	run("buttons", func(ctx context.Context) error {
		return board.WatchButtons(ctx, t.OnButtonPrimary, t.OnButtonSecondary)
	})
	run("trainer", func(ctx context.Context) error {
		t.Run(ctx, cfg.TickInterval())
		return nil
	})
	run("reporters", results.Run)
	if client != nil && cfg.Redis.LetterChannel != "" {
		run("letter feed", feed.New(client, cfg.Redis.LetterChannel, t.OnLetterEvent, events).Run)
	}

	err = srv.Start(ctx)
	stop()
	wg.Wait()
	board.SetStatusLED(false)
	events.Log("stopped")
	if err != nil {
		return printer.Error(stderr, "Server failed", err.Error())
	}
	log.Println("shut down cleanly")
	return nil
}

// localAddress returns the first non-loopback IPv4 address of this machine
// for the start-up screen.
func localAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "0.0.0.0"
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "0.0.0.0"
}
