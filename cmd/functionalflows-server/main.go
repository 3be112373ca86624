// Command functionalflows-server evaluates flow series posted over HTTP
// against the components defined in a configuration file.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/chrissnell/functionalflows/internal/app"
	"github.com/chrissnell/functionalflows/internal/controllers/restserver"
	"github.com/chrissnell/functionalflows/internal/log"
	"github.com/chrissnell/functionalflows/pkg/config"
)

const version = "0.1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.StringP("config", "c", "components.yaml", "Path to the .yaml or .toml file containing component definitions")
	listenAddr := flag.String("listen-addr", restserver.DefaultListenAddr, "Address to listen on")
	port := flag.IntP("port", "p", restserver.DefaultPort, "HTTP port")
	maxBody := flag.Int64("max-body-bytes", restserver.DefaultMaxBodyBytes, "Largest accepted request body")
	concurrency := flag.Int("concurrency", runtime.NumCPU(), "Components evaluated in parallel per request")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.BoolP("version", "v", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("functionalflows-server %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	filename, _ := filepath.Abs(*cfgFile)
	provider, err := config.NewProvider(filename)
	if err != nil {
		log.Errorw("failed to load configuration", "error", err)
		os.Exit(app.ExitCode(err))
	}

	application := app.New(provider, log.GetSugaredLogger())
	err = application.Serve(context.Background(), restserver.ServerConfig{
		ListenAddr:   *listenAddr,
		Port:         *port,
		MaxBodyBytes: *maxBody,
		Concurrency:  *concurrency,
	})
	if err != nil {
		log.Errorw("application error", "error", err)
		log.Sync()
		os.Exit(app.ExitCode(err))
	}
}
