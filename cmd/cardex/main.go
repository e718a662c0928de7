package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	"github.com/ForTeamEffect/kap-front/cardex"
)

func main() {
	config, err := cardex.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var price string
	flag.StringVar(&config.HTTPAddr, "addr", config.HTTPAddr, "HTTP listen address")
	flag.StringVar(&price, "phys-card-price", config.PhysicalCardPrice.String(), "physical card price charged to the wallet")
	flag.StringVar(&config.ExpiryTZ, "expiry-tz", config.ExpiryTZ, "IANA timezone for card expiry dates")
	flag.IntVar(&config.CardYears, "card-years", config.CardYears, "validity of newly issued cards in years")
	flag.StringVar(&config.BINPrefix, "bin", config.BINPrefix, "6 or 8 digit BIN prefix for generated PANs")
	jsonLogs := flag.Bool("json-logs", false, "log in JSON instead of text")
	flag.Parse()

	if config.PhysicalCardPrice, err = decimal.NewFromString(price); err != nil {
		fmt.Fprintf(os.Stderr, "Error: -phys-card-price: %v\n", err)
		os.Exit(1)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, nil)
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cardex.NewApp(logger, config)
	if err := app.Start(); err != nil {
		logger.Error("starting app", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()
	app.Shutdown()
}
