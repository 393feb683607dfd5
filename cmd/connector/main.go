package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/futures-connector/internal/config"
	"github.com/ducminhle1904/futures-connector/internal/exchange/binance"
	"github.com/ducminhle1904/futures-connector/internal/logger"
	"github.com/ducminhle1904/futures-connector/internal/monitoring"
	"github.com/ducminhle1904/futures-connector/pkg/reporting"
)

type cliFlags struct {
	envFile     string
	testnet     bool
	testnetSet  bool
	candles     string
	interval    string
	export      string
	bidAsk      string
	place       bool
	symbol      string
	side        string
	orderType   string
	quantity    string
	price       string
	timeInForce string
	cancel      int64
	status      int64
	metricsPort int
}

func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("connector", flag.ContinueOnError)

	fs.StringVar(&f.envFile, "env", ".env", "Environment file path")
	fs.BoolVar(&f.testnet, "testnet", true, "Use the futures testnet (overrides BINANCE_TESTNET)")
	fs.StringVar(&f.candles, "candles", "", "Fetch candles for SYMBOL")
	fs.StringVar(&f.interval, "interval", "1h", "Candle interval")
	fs.StringVar(&f.export, "export", "", "Write fetched candles to a .csv or .xlsx file (\"auto\" for results/<SYMBOL>_<interval>/candles.xlsx)")
	fs.StringVar(&f.bidAsk, "bidask", "", "Fetch best bid/ask for SYMBOL")
	fs.BoolVar(&f.place, "place", false, "Place an order described by -symbol -side -type -qty [-price -tif]")
	fs.StringVar(&f.symbol, "symbol", "", "Order symbol")
	fs.StringVar(&f.side, "side", "BUY", "Order side (BUY, SELL)")
	fs.StringVar(&f.orderType, "type", "LIMIT", "Order type")
	fs.StringVar(&f.quantity, "qty", "", "Order quantity")
	fs.StringVar(&f.price, "price", "", "Limit price")
	fs.StringVar(&f.timeInForce, "tif", "", "Time in force (GTC, IOC, FOK, GTX)")
	fs.Int64Var(&f.cancel, "cancel", 0, "Cancel order ID on -symbol")
	fs.Int64Var(&f.status, "status", 0, "Query order ID on -symbol")
	fs.IntVar(&f.metricsPort, "metrics-port", 0, "Serve Prometheus metrics and /health on this port (overrides PROMETHEUS_PORT)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "testnet" {
			f.testnetSet = true
		}
	})

	if (f.place || f.cancel != 0 || f.status != 0) && f.symbol == "" {
		return nil, fmt.Errorf("-symbol is required for -place, -cancel and -status")
	}
	return f, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := config.LoadEnvFile(flags.envFile); err != nil {
		log.Printf("Warning: %v, checking environment variables...", err)
	}

	cfg := config.Load()
	if flags.testnetSet {
		cfg.Testnet = flags.testnet
	}
	if flags.metricsPort != 0 {
		cfg.Monitoring.PrometheusPort = flags.metricsPort
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("API credentials validation failed: %v", err)
	}

	logFile := cfg.Logging.File
	if cfg.Logging.ConsoleOnly {
		logFile = ""
	}
	lg, err := logger.New(logger.Config{Level: cfg.Logging.Level, File: logFile})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	apiKey, secretKey := cfg.Credentials()
	client, err := binance.NewClient(binance.Config{
		Credentials: binance.Credentials{APIKey: apiKey, SecretKey: secretKey},
		Testnet:     cfg.Testnet,
		Timeout:     cfg.HTTPTimeout,
		Logger:      lg,
	})
	if err != nil {
		lg.WithError(err).Fatal("Failed to create client")
	}

	if cfg.Monitoring.PrometheusPort > 0 {
		go serveMetrics(lg, cfg.Monitoring.PrometheusPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, client, flags, reporting.NewConsoleReporter(os.Stdout)); err != nil {
		lg.WithError(err).Error("Connector finished with errors")
	}

	if cfg.Monitoring.PrometheusPort > 0 {
		lg.WithField("port", cfg.Monitoring.PrometheusPort).Info("Serving metrics until interrupted")
		<-ctx.Done()
	}
}

func run(ctx context.Context, client *binance.Client, flags *cliFlags, out *reporting.ConsoleReporter) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	contracts, err := client.ListContracts(ctx)
	keep(err)
	pairs := make([]string, 0, len(contracts))
	for pair := range contracts {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	out.RenderContracts(pairs)

	_, err = client.SyncTime(ctx)
	keep(err)

	balances, err := client.GetBalances(ctx)
	keep(err)
	out.RenderBalances(balances)

	if flags.candles != "" {
		candles, err := client.GetCandles(ctx, flags.candles, flags.interval)
		keep(err)
		out.RenderCandles(flags.candles, flags.interval, candles)
		if flags.export != "" && err == nil {
			path := flags.export
			if path == "auto" {
				path = reporting.CandleExportPath(flags.candles, flags.interval, "xlsx")
			}
			keep(reporting.WriteCandles(flags.candles, flags.interval, candles, path))
		}
	}

	if flags.bidAsk != "" {
		quote, err := client.GetBidAsk(ctx, flags.bidAsk)
		keep(err)
		out.RenderQuote(flags.bidAsk, quote)
	}

	if flags.place {
		req, err := buildOrderRequest(flags)
		if err != nil {
			return err
		}
		order, err := client.PlaceOrder(ctx, req)
		keep(err)
		printOrder("Placed", order)
	}

	if flags.status != 0 {
		order, err := client.GetOrderStatus(ctx, flags.status, flags.symbol)
		keep(err)
		printOrder("Status", order)
	}

	if flags.cancel != 0 {
		order, err := client.CancelOrder(ctx, flags.symbol, flags.cancel)
		keep(err)
		printOrder("Cancelled", order)
	}

	return firstErr
}

func printOrder(action string, order *binance.Order) {
	if order == nil {
		return
	}
	fmt.Printf("%s order %d %s %s %s qty=%s price=%s status=%s\n",
		action, order.OrderID, order.Symbol, order.Side, order.Type,
		order.OrigQty, order.Price, order.Status)
}

func serveMetrics(lg logrus.FieldLogger, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", monitoring.Health())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.WithError(err).Error("Metrics server stopped")
	}
}
