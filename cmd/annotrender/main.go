// Command annotrender replays a gesture scenario against the annotation
// overlay and writes the resulting drawings as PNG and JSON.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"nibra-chart/internal/export"
	"nibra-chart/internal/overlay"
	"nibra-chart/internal/render"
	"nibra-chart/internal/scenario"
	"nibra-chart/pkg/geometry"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var rootCmd = &cobra.Command{
	Use:   "annotrender <scenario.yaml>...",
	Short: "replay drawing scenarios and export the result",
	Args:  cobra.MinimumNArgs(1),

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		canvas := export.Canvas{
			Width:      viper.GetInt("width"),
			Height:     viper.GetInt("height"),
			Background: viper.GetString("background"),
		}
		for _, path := range args {
			if err := renderScenario(path, canvas); err != nil {
				return errors.Wrap(err, path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	rootCmd.Flags().String("out-png", "", "write the rendered drawings to this PNG (one scenario) or directory")
	rootCmd.Flags().String("out-json", "", "write the drawings to this JSON file (one scenario) or directory")
	rootCmd.Flags().Int("width", 800, "canvas width in pixels")
	rootCmd.Flags().Int("height", 600, "canvas height in pixels")
	rootCmd.Flags().String("background", "#ffffff", "canvas background color")
	rootCmd.Flags().Bool("verify", true, "fail when a scenario's expectations are not met")
}

func renderScenario(path string, canvas export.Canvas) error {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	logger := log.WithField("scenario", sc.Name)

	e := overlay.New(render.DefaultOptions())
	e.SetBounds(geometry.NewRect(0, 0, float64(canvas.Width), float64(canvas.Height)))
	if err := scenario.Run(e, sc); err != nil {
		return err
	}
	logger.Infof("%d steps, %d drawings", len(sc.Steps), len(e.Annotations()))

	if viper.GetBool("verify") {
		if err := scenario.Verify(e, sc.Expect); err != nil {
			return err
		}
	}

	if out := outputPath(viper.GetString("out-png"), path, ".png"); out != "" {
		if err := export.SavePNG(out, e.Scene(), canvas); err != nil {
			return err
		}
		logger.Infof("wrote %s", out)
	}
	if out := outputPath(viper.GetString("out-json"), path, ".json"); out != "" {
		doc := export.Document{Annotations: e.Annotations()}
		if err := export.SaveAnnotations(out, doc); err != nil {
			return err
		}
	}
	return nil
}

// outputPath resolves the destination for one scenario: a directory gets
// the scenario's base name with ext, anything else is used as is.
func outputPath(flag, scenarioPath, ext string) string {
	if flag == "" {
		return ""
	}
	if info, err := os.Stat(flag); err == nil && info.IsDir() {
		base := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
		return filepath.Join(flag, base+ext)
	}
	return flag
}

func main() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.SetEnvPrefix("ANNOTRENDER")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags")
	}
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags")
	}

	log.SetFormatter(&prefixed.TextFormatter{})
	cobra.OnInitialize(func() {
		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("cannot render scenario")
	}
}
