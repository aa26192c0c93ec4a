package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/homecase-camera/internal/camera"
	"github.com/mkrupp/homecase-camera/internal/infra/config"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
	"github.com/mkrupp/homecase-camera/internal/infra/transport/http"
	"github.com/mkrupp/homecase-camera/internal/repo/imagestore"
	"github.com/mkrupp/homecase-camera/internal/svc/capturesvc"
	"github.com/mkrupp/homecase-camera/internal/svc/retentionsvc"
)

const (
	appName = "homecase"
	svcName = "camerasvc"
)

type Config struct {
	config.EnvConfig

	Log       logging.LoggerConfig             `envPrefix:"LOG_"`
	Camera    camera.Config                    `envPrefix:"CAMERA_"`
	Capture   capturesvc.CaptureConfig         `envPrefix:"CAMERA_"`
	HTTP      capturesvc.HTTPTransportConfig   `envPrefix:"HTTP_"`
	Storage   imagestore.FileSystemStoreConfig `envPrefix:"CAMERA_"`
	Retention retentionsvc.RetentionConfig     `envPrefix:"CAMERA_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.camerasvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := imagestore.NewFileSystemStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("new image store: %w", err)
	}

	source, err := camera.NewSource(cfg.Camera)
	if err != nil {
		return fmt.Errorf("new camera source: %w", err)
	}

	captureSvc, err := capturesvc.NewCameraCaptureService(source, store, cfg.Camera, cfg.Capture)
	if err != nil {
		return fmt.Errorf("new capture service: %w", err)
	}

	sweeper, err := retentionsvc.NewSweeper(store, cfg.Retention)
	if err != nil {
		return fmt.Errorf("new sweeper: %w", err)
	}

	sweeper.Start(ctx)
	defer sweeper.Stop()

	httpTransport := capturesvc.NewHTTPTransport(captureSvc, cfg.HTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
