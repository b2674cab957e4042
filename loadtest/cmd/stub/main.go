package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli"

	"github.com/KasumiMercury/primind-void-timer/loadtest/internal/stub"
)

var (
	port         string
	seed         uint64
	rejectPrefix string
	failureRate  float64
	outage       bool
)

var flags = []cli.Flag{
	cli.StringFlag{
		Name:        "port, p",
		Usage:       "listen port",
		EnvVar:      "PORT",
		Value:       "8090",
		Destination: &port,
	},
	cli.Uint64Flag{
		Name:        "seed",
		Usage:       "seed for the failure rate generator",
		EnvVar:      "STUB_SEED",
		Value:       1,
		Destination: &seed,
	},
	cli.StringFlag{
		Name:        "reject-prefix",
		Usage:       "reject every record whose id starts with this prefix",
		EnvVar:      "STUB_REJECT_PREFIX",
		Destination: &rejectPrefix,
	},
	cli.Float64Flag{
		Name:        "failure-rate",
		Usage:       "probability (0-1) of rejecting each record",
		EnvVar:      "STUB_FAILURE_RATE",
		Destination: &failureRate,
	},
	cli.BoolFlag{
		Name:        "outage",
		Usage:       "answer every batch save with 503",
		EnvVar:      "STUB_OUTAGE",
		Destination: &outage,
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := cli.App{
		Name:      "record-store-stub",
		HelpName:  "stub",
		Usage:     "in-memory remote record store for load tests",
		UsageText: "stub [options]",
		Flags:     flags,
		Action:    serve,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("stub exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serve(_ *cli.Context) error {
	if failureRate < 0 || failureRate > 1 {
		return fmt.Errorf("failure-rate must be within 0-1, got %v", failureRate)
	}

	storage := stub.NewRecordStorage(seed)
	storage.SetFailures(stub.FailureConfig{
		RejectPrefix: rejectPrefix,
		FailureRate:  failureRate,
		Outage:       outage,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	stub.NewHandler(storage).Register(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting record store stub",
			slog.String("port", port),
			slog.String("reject_prefix", rejectPrefix),
			slog.Float64("failure_rate", failureRate),
			slog.Bool("outage", outage),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
