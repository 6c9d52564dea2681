// Package main provides the entry point for the Nibra Chart workstation.
package main

import (
	"context"
	"os"
	"time"

	"nibra-chart/internal/app"
	"nibra-chart/internal/config"
	"nibra-chart/internal/version"
	"nibra-chart/ui/mainwindow"
	"nibra-chart/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const appID = "io.nibra.chart"

var rootCmd = &cobra.Command{
	Use:     "nibra-chart",
	Short:   "charting workstation with drawing tools",
	Version: version.String(),

	SilenceUsage: true,

	RunE: run,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "debug flag")
	flags.String("config", "", "config file")
	flags.String("symbol", "DX1!", "initial symbol")
	flags.String("timeframe", "30m", "initial timeframe")
	flags.String("chart-type", "Candle", "initial chart type (Area, Candle, Line, Bar)")
	flags.Uint64("seed", 1, "random walk seed")
	flags.Duration("tick-interval", time.Second, "simulated tick interval")
	flags.String("prefs", prefs.DefaultPath(), "preferences file")
	flags.Bool("hot-reload", false, "offer a restart when the binary is rebuilt")
}

func run(cmd *cobra.Command, args []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, v.GetString("config"))
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Infof("starting nibra-chart v%s (%s %s)", version.Version, cfg.Symbol, cfg.Timeframe)

	p, err := prefs.Load(v.GetString("prefs"))
	if err != nil {
		log.WithError(err).Warn("ignoring preferences")
	}

	state := app.NewState(cfg)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ChartTheme{Text: cfg.Chart.Text})

	win := mainwindow.New(fyneApp, state, p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go state.RunTicker(ctx)

	if v.GetBool("hot-reload") {
		setupHotReload(ctx, win)
	}

	win.ShowAndRun()
	return nil
}

// setupHotReload offers a restart whenever the executable is rebuilt.
func setupHotReload(ctx context.Context, win *mainwindow.MainWindow) {
	reloader, err := app.NewHotReloader(2 * time.Second)
	if err != nil {
		log.WithError(err).Warn("hot reload disabled")
		return
	}
	log.Infof("hot reload: watching %s", reloader.ExecPath())

	go func() {
		for reloader.Watch(ctx) {
			answer := make(chan bool, 1)
			dialog.ShowConfirm("New Version Available",
				"The application binary has been updated.\nRestart now?",
				func(ok bool) { answer <- ok }, win.Window)

			select {
			case <-ctx.Done():
				return
			case ok := <-answer:
				if !ok {
					reloader.ResetBaseline()
					continue
				}
			}

			win.SavePreferences()
			if err := reloader.Restart(); err != nil {
				log.WithError(err).Error("hot reload: restart failed")
				reloader.ResetBaseline()
			}
		}
	}()
}

func main() {
	dotenvFile := ".env.local"
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			log.WithError(err).Fatal("error loading dotenv file")
		}
	}

	log.SetFormatter(&prefixed.TextFormatter{})

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("cannot execute command")
	}
}
