package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/config"
	"xdao.co/epcis/hashsvc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	fs := pflag.NewFlagSet("epcis-hashd", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "YAML config file (default $"+config.EnvVar+")")
	listen := fs.String("listen", "", "listen address (overrides server.listen)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	log := cfg.Logger(errOut)

	archive, err := cfg.OpenArchive()
	if err != nil {
		log.Error("open store", "error", err)
		return 1
	}

	lis, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		log.Error("listen", "addr", cfg.Server.Listen, "error", err)
		return 1
	}

	var serverOpts []grpc.ServerOption
	if cfg.Server.MaxMsgBytes > 0 {
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(cfg.Server.MaxMsgBytes),
			grpc.MaxSendMsgSize(cfg.Server.MaxMsgBytes))
	}
	s := grpc.NewServer(serverOpts...)
	hashsvc.RegisterEventHashServer(s, &hashsvc.Server{
		Builder: canon.NewBuilder(cfg.Options()),
		Context: cfg.Context,
		Archive: archive,
		Logger:  log,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		s.GracefulStop()
	}()

	log.Info("epcis-hashd listening",
		"addr", lis.Addr().String(),
		"mode", cfg.Options().Mode.String(),
		"archive", archive != nil)
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		log.Error("serve", "error", err)
		return 1
	}
	return 0
}
