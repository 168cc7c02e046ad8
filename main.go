package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"internal2vol/cli"
	"internal2vol/foam"
	"internal2vol/promoter"
	"internal2vol/registry"
	"internal2vol/server"
)

const feedShutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger 按级别和格式创建独立的 logger，不修改全局 logger
func newLogger(out io.Writer, level, format string) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	if format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func run(outW io.Writer, args []string) error {
	opts, exit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if exit {
		return nil
	}

	logger := newLogger(outW, opts.LogLevel, opts.LogFormat)
	logger.WithFields(log.Fields{
		"case":         opts.CaseDir,
		"config":       opts.ConfigFile,
		"fields":       opts.Fields,
		"vectorFields": opts.VectorFields,
	}).Debug("options")

	times, err := foam.ListTimes(opts.CaseDir)
	if err != nil {
		return err
	}
	selected, fallback := opts.Selector.Select0(times)
	if fallback {
		logger.Warn("No time specified or available, selecting 'constant'")
	}
	ctrl, err := foam.ReadControl(opts.CaseDir)
	if err != nil {
		return err
	}

	var observer promoter.Observer
	if opts.FeedAddr != "" {
		s := server.NewServer(opts.FeedAddr, upgrader, logger)
		if err := s.Start(); err != nil {
			return fmt.Errorf("start progress feed: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), feedShutdownTimeout)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				logger.WithError(err).Warn("progress feed shutdown")
			}
		}()
		observer = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := promoter.New(promoter.RunContext{
		CaseDir:  opts.CaseDir,
		Control:  ctrl,
		Registry: registry.New(),
		Log:      logger,
		Observer: observer,
	}, promoter.Options{
		Fields:       opts.Fields,
		VectorFields: opts.VectorFields,
		Suffix:       opts.Suffix,
	})
	if _, err := p.Run(ctx, selected); err != nil {
		return err
	}
	return nil
}
