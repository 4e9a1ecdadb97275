// Package main is the ssd-detect command.
package main

import (
	"log"
	"os"

	"go.viam.com/ssd/cli"
	// register the inference backends.
	_ "go.viam.com/ssd/ml/gocvnet"
	_ "go.viam.com/ssd/ml/onnx"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
