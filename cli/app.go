// Package cli contains the ssd-detect command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/ssd/utils"
)

// Flags.
const (
	flagConfig         = "config"
	flagDebug          = "debug"
	flagLogFile        = "log-file"
	flagLogLevel       = "log-level"
	flagPrefix         = "prefix"
	flagEpoch          = "epoch"
	flagWidth          = "width"
	flagHeight         = "height"
	flagMeanR          = "mean-r"
	flagMeanG          = "mean-g"
	flagMeanB          = "mean-b"
	flagDevice         = "device"
	flagBackend        = "backend"
	flagBackendOption  = "backend-option"
	flagThresh         = "thresh"
	flagMinArea        = "min-area"
	flagLabels         = "labels"
	flagMaxDisplaySize = "max-display-size"
	flagThickness      = "thickness"
	flagOutDir         = "out-dir"
	flagResults        = "results"
	flagDB             = "db"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "ssd-detect",
		Usage:           "detect objects in images with a single shot detector",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				EnvVars: []string{utils.ConfigEnvVar},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn or error",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "also write json logs to `FILE`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "detect",
				Usage:     "run the detector on images and write annotated copies and results",
				ArgsUsage: "IMAGE...",
				Flags:     detectFlags(),
				Action:    DetectAction,
			},
			{
				Name:      "results",
				Usage:     "print a results file as a table",
				ArgsUsage: "FILE",
				Action:    ResultsAction,
			},
		},
	}
}

func detectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagPrefix,
			Aliases: []string{"p"},
			Usage:   "model prefix; loads PREFIX-EPOCH.params and PREFIX-symbol.json",
		},
		&cli.IntFlag{
			Name:  flagEpoch,
			Usage: "model epoch, 0 to 9999",
		},
		&cli.IntFlag{
			Name:  flagWidth,
			Usage: "network input width",
		},
		&cli.IntFlag{
			Name:  flagHeight,
			Usage: "network input height",
		},
		&cli.Float64Flag{
			Name:  flagMeanR,
			Usage: "mean subtracted from the red channel",
		},
		&cli.Float64Flag{
			Name:  flagMeanG,
			Usage: "mean subtracted from the green channel",
		},
		&cli.Float64Flag{
			Name:  flagMeanB,
			Usage: "mean subtracted from the blue channel",
		},
		&cli.StringFlag{
			Name:  flagDevice,
			Usage: "cpu, gpu or gpu:ID",
		},
		&cli.StringFlag{
			Name:  flagBackend,
			Usage: "inference backend",
		},
		&cli.StringSliceFlag{
			Name:  flagBackendOption,
			Usage: "backend option as KEY=VALUE, may be repeated",
		},
		&cli.Float64Flag{
			Name:    flagThresh,
			Aliases: []string{"t"},
			Usage:   "minimum score of a reported detection",
		},
		&cli.Float64Flag{
			Name:  flagMinArea,
			Usage: "minimum box area as a fraction of the image",
		},
		&cli.PathFlag{
			Name:    flagLabels,
			Aliases: []string{"l"},
			Usage:   "newline delimited class names",
		},
		&cli.IntFlag{
			Name:  flagMaxDisplaySize,
			Usage: "longest side of the annotated image, 0 keeps the original size",
		},
		&cli.IntFlag{
			Name:  flagThickness,
			Usage: "box outline thickness in pixels",
		},
		&cli.PathFlag{
			Name:  flagOutDir,
			Usage: "directory for annotated images, empty to skip",
		},
		&cli.PathFlag{
			Name:  flagResults,
			Usage: "tab separated results file to append to, empty to skip",
		},
		&cli.PathFlag{
			Name:  flagDB,
			Usage: "sqlite database to store detections in",
		},
	}
}
