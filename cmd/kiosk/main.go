package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"scan_kiosk/internal/beep"
	"scan_kiosk/internal/config"
	"scan_kiosk/internal/discovery"
	"scan_kiosk/internal/dispatch"
	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/handlers"
	"scan_kiosk/internal/ledsink"
	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
	"scan_kiosk/internal/repository/db"
	"scan_kiosk/internal/scanner"
	"scan_kiosk/internal/screen"
	"scan_kiosk/internal/server"
	"scan_kiosk/internal/service"
	"scan_kiosk/internal/validation"
)

const (
	injectQueueSize   = 8
	screenBusSize     = 16
	shutdownTimeout   = 10 * time.Second
	journalTimeout    = 5 * time.Second
	defaultConfigPath = "configs"
)

func main() {
	// bootstrap logger until the configured level is known
	log := logger.Get(logger.InfoLevel)

	cfg, err := config.Load(configDir())
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	if cfg.LogLevel != logger.InfoLevel {
		log = logger.New(cfg.LogLevel)
	}

	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// LED sink and feedback state machine
	sink, closeSink, err := ledsink.Build(cfg.LEDConfig(), log.Named("led"))
	if err != nil {
		log.Fatalw("failed to open LED sink", "driver", cfg.LED.Driver, "err", err)
	}
	defer func() {
		if cerr := closeSink(); cerr != nil {
			log.Errorw("failed to close LED sink", "err", cerr)
		}
	}()

	repos := repository.NewRepository(sqlDB)
	journal := service.NewJournalService(repos.EventRepo)

	machine := feedback.New(cfg.FeedbackConfig(), sink, log.Named("feedback"),
		feedback.WithFaultObserver(service.NewSinkFaultJournal(journal, log.Named("journal"))))

	// scan sources; the console source owns the terminal when enabled
	sources, out, err := openSources(cfg)
	if err != nil {
		log.Fatalw("failed to open scanner", "source", cfg.Scanner.Source, "err", err)
	}
	injected := scanner.NewChannelSource(injectQueueSize)
	sources = append(sources, injected)

	// render surface
	bus := screen.NewBus(screenBusSize, log.Named("screen"))
	var renderers []screen.Renderer
	if cfg.Screen.Console {
		renderers = append(renderers, screen.NewConsoleRenderer(out))
	}
	surface := screen.NewSurface(cfg.ScreenConfig(), bus, log.Named("screen"), renderers...)

	// dispatcher
	validator := validation.NewClient(cfg.ValidationConfig(), log.Named("validation"))
	ack, closeAck := openBeeper(cfg, log)
	defer closeAck()

	stats := service.NewStatsService(repos.StatsRepo, journal)
	dispatcher := dispatch.New(cfg.DispatchConfig(), cfg.NewDeduplicator(), validator, machine, bus, log.Named("dispatch"),
		dispatch.WithAcknowledger(ack),
		dispatch.WithRecorder(stats),
	)

	// operator API
	services := service.NewService(repos, service.Kiosk{
		ID:     cfg.KioskID,
		Light:  machine,
		Screen: surface,
		Scans:  injected,
		Dedup:  dispatcher,
	}, service.AuthOptions{
		SigningKey:  cfg.Auth.SigningKey,
		TokenTTL:    cfg.Auth.TokenTTL,
		AllowSignUp: cfg.Auth.AllowSignUp,
	}, log.Named("service"))
	apiHandler := handlers.NewHandler(services, surface, log.Named("http"))
	srv := server.New(cfg.Port, apiHandler.InitRoutes())

	var wg sync.WaitGroup
	goRun(&wg, func() { machine.Run(ctx) })
	goRun(&wg, func() { surface.Run(ctx) })
	goRun(&wg, func() { services.Housekeeper.Run(ctx, cfg.Dedup.SweepInterval) })
	goRun(&wg, func() {
		if err := scanner.Merge(ctx, dispatcher.OnScan, log.Named("scanner"), sources...); err != nil {
			log.Errorw("scanner_stopped", "err", err)
		}
	})
	runHTTPServer(srv, stop, log)

	advertiser := startDiscovery(cfg, log)
	note(journal, models.EventStart, "kiosk started", map[string]any{"kiosk_id": cfg.KioskID}, log)
	log.Infow("kiosk started", "kiosk_id", cfg.KioskID, "port", cfg.Port, "led", cfg.LED.Driver, "source", cfg.Scanner.Source)

	<-ctx.Done()
	log.Infow("shutting down kiosk...")

	if advertiser != nil {
		advertiser.Stop()
	}
	shutdownHTTP(srv, log)

	wg.Wait()
	dispatcher.Wait()
	note(journal, models.EventStop, "kiosk stopped", nil, log)
}

func configDir() string {
	if dir := os.Getenv(config.EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return defaultConfigPath
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "kiosk.db")
		path = "kiosk.db"
	}
	return db.InitDB(path)
}

// openSources returns the hardware scan sources and where the console
// renderer should write.
func openSources(cfg *config.Config) ([]scanner.Source, io.Writer, error) {
	switch cfg.Scanner.Source {
	case config.SourceConsole:
		cs, err := scanner.NewConsoleSource()
		if err != nil {
			return nil, nil, err
		}
		return []scanner.Source{cs}, cs.Stdout(), nil
	case config.SourceStdin:
		return []scanner.Source{scanner.NewLineSource(os.Stdin)}, os.Stdout, nil
	default:
		return nil, os.Stdout, nil
	}
}

func openBeeper(cfg *config.Config, log *logger.Logger) (dispatch.Acknowledger, func()) {
	if !cfg.Beep.Enabled {
		return beep.Nop{}, func() {}
	}
	b, err := beep.NewUDPBeeper(cfg.Beep.Addr)
	if err != nil {
		log.Warnw("beep disabled", "addr", cfg.Beep.Addr, "err", err)
		return beep.Nop{}, func() {}
	}
	return b, func() { _ = b.Close() }
}

func startDiscovery(cfg *config.Config, log *logger.Logger) *discovery.Advertiser {
	if !cfg.MDNS.Enabled {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimPrefix(cfg.Port, ":"))
	if err != nil {
		log.Warnw("mdns disabled: port is not numeric", "port", cfg.Port)
		return nil
	}
	a := discovery.NewAdvertiser(discovery.Config{KioskID: cfg.KioskID, Port: port})
	if err := a.Start(); err != nil {
		log.Warnw("mdns registration failed", "err", err)
		return nil
	}
	return a
}

func goRun(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

// runHTTPServer runs the HTTP server in a separate goroutine. A listen
// failure stops the kiosk.
func runHTTPServer(srv *server.Server, stop context.CancelFunc, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Errorw("error starting server", "addr", srv.Addr(), "err", err)
			stop()
		}
	}()
}

func shutdownHTTP(srv *server.Server, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

func note(j service.Journal, typ, description string, meta any, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	if err := j.Note(ctx, typ, description, meta); err != nil {
		log.Errorw("journal_write_failed", "type", typ, "err", err)
	}
}
