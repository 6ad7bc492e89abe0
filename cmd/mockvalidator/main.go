package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/mockvalidator"
	"scan_kiosk/internal/server"

	"github.com/spf13/viper"
)

func main() {
	log := logger.Get(logger.InfoLevel)

	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("fixtures", "configs/mock_fixtures.yml")
	v.SetEnvPrefix("MOCKVALIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fixtures, err := mockvalidator.LoadFixtures(v.GetString("fixtures"))
	if err != nil {
		log.Fatalw("failed to load fixtures", "path", v.GetString("fixtures"), "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(v.GetString("port"), mockvalidator.NewServer(fixtures, log.Named("mock")).InitRoutes())
	go func() {
		if err := srv.Run(); err != nil {
			log.Errorw("error starting server", "addr", srv.Addr(), "err", err)
			stop()
		}
	}()
	log.Infow("mock validator listening", "addr", srv.Addr(), "codes", len(fixtures.Codes))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
