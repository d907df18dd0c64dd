package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nanzhong/shorts/config"
	"github.com/nanzhong/shorts/market"
	"github.com/nanzhong/shorts/shortinterest"
	"github.com/nanzhong/shorts/slack"
	slackgo "github.com/slack-go/slack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK           = 0
	exitMissingInput = 1
	exitSetup        = 2
)

type backendFactory func(cfg *config.Config, log *zap.Logger) (market.Backend, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newYahooBackend)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newBackend backendFactory) int {
	fs := flag.NewFlagSet("shorts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: shorts [flags] <comma-separated-tickers>\n")
		fs.PrintDefaults()
	}

	var (
		configPath    string
		timeout       time.Duration
		debug         bool
		slackBotToken string
		slackChannel  string
	)
	fs.StringVar(&configPath, "config", "", "Path to a YAML config file.")
	fs.DurationVar(&timeout, "timeout", 0, "HTTP timeout for market data requests (default 30s).")
	fs.BoolVar(&debug, "debug", false, "Enable debug logging.")
	fs.StringVar(&slackBotToken, "slack-bot-token", envOrString("SLACK_BOT_TOKEN", ""), "Slack token used to post the summary.")
	fs.StringVar(&slackChannel, "slack-channel", "", "Slack channel to post the summary to.")

	emit := func(payload shortinterest.Payload, code int) int {
		return writePayload(stdout, stderr, payload, code)
	}

	if err := fs.Parse(args); err != nil {
		return emit(shortinterest.FatalPayload("usage:"+err.Error()), exitMissingInput)
	}

	log := newLogger(stderr, debug).With(zap.String("run_id", uuid.NewString()))
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadAndValidate(configPath, func(c *config.Config) {
		if timeout > 0 {
			c.Yahoo.Timeout = timeout
		}
		if slackChannel != "" {
			c.Slack.Channel = slackChannel
		}
		// A token from the environment alone does not opt in to posting.
		if slackBotToken != "" && c.Slack.Channel != "" {
			c.Slack.Token = slackBotToken
		}
	})
	if err != nil {
		log.Error("Loading config failed", zap.String("path", configPath), zap.Error(err))
		return emit(shortinterest.FatalPayload("config:"+err.Error()), exitSetup)
	}

	var tickers []string
	if fs.NArg() > 0 {
		tickers = shortinterest.ParseTickers(fs.Arg(0))
	} else {
		for _, t := range cfg.Tickers {
			tickers = append(tickers, shortinterest.ParseTickers(t)...)
		}
	}
	if len(tickers) == 0 {
		log.Error("No tickers given")
		return emit(shortinterest.FatalPayload(shortinterest.ErrMissingTickers), exitMissingInput)
	}

	backend, err := newBackend(cfg, log)
	if err != nil {
		log.Error("Building market backend failed", zap.String("backend", cfg.Backend), zap.Error(err))
		return emit(shortinterest.FatalPayload("backend_init:"+err.Error()), exitSetup)
	}

	log.Info("Collecting short interest", zap.Strings("tickers", tickers))
	payload := shortinterest.NewCollector(backend, log).Collect(ctx, tickers)
	log.Info("Collected short interest", zap.Int("results", len(payload.Results)), zap.Int("errors", len(payload.Errors)))

	code := emit(payload, exitOK)

	if cfg.Slack.Enabled() {
		notifier := slack.NewNotifier(slackgo.New(cfg.Slack.Token), cfg.Slack.Channel, log)
		if err := notifier.Notify(ctx, payload); err != nil {
			log.Error("Posting slack summary failed", zap.Error(err))
		}
	}
	return code
}

func newYahooBackend(cfg *config.Config, log *zap.Logger) (market.Backend, error) {
	return market.NewYahooBackend(
		&http.Client{Timeout: cfg.Yahoo.Timeout},
		market.WithBaseURL(cfg.Yahoo.BaseURL),
		market.WithCookieURL(cfg.Yahoo.CookieURL),
		market.WithModules(cfg.Yahoo.Modules...),
		market.WithLogger(log),
	)
}

func writePayload(stdout, stderr io.Writer, payload shortinterest.Payload, code int) int {
	if err := json.NewEncoder(stdout).Encode(payload); err != nil {
		fmt.Fprintf(stderr, "writing payload: %s\n", err)
		return exitSetup
	}
	return code
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

func envOrString(envKey, defaultValue string) string {
	value, defined := os.LookupEnv(envKey)
	if defined {
		return value
	}
	return defaultValue
}
