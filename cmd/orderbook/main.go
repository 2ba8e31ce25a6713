package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/0x5487/orderbook"
	"github.com/0x5487/orderbook/internal/config"
	"github.com/0x5487/orderbook/internal/console"
	"github.com/0x5487/orderbook/internal/render"
	"github.com/0x5487/orderbook/internal/scenario"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $CONFIG_FILE)")
	envPath := flag.String("env", "", "path to a .env file (default ./.env)")
	scenarioPath := flag.String("scenario", "", "run a YAML scenario, print the book and exit")
	flag.Parse()

	if err := run(*configPath, *envPath, *scenarioPath, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, envPath string, scenarioPath string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	orderbook.SetLogger(logger)
	logger.Debug("config loaded", cfg.Fields()...)

	book := orderbook.NewOrderBook()

	if scenarioPath == "" {
		return console.New(book, cfg, in, out).Run()
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	logger.Info("running scenario", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))

	results, err := scenario.Run(book, sc.Steps)
	renderer := render.New(out, cfg.Color)
	for _, result := range results {
		renderer.Trades(result.Trades)
	}
	renderer.Book(book, cfg.Depth)
	return err
}
