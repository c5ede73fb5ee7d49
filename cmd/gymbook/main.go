package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbook/internal/booking"
	"gymbook/internal/catalog"
	"gymbook/internal/config"
	"gymbook/internal/events"
	"gymbook/internal/export"
	"gymbook/internal/gateway"
	"gymbook/internal/logging"
	"gymbook/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02T15:04"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	var (
		group       = flag.String("group", "", "group to reserve")
		date        = flag.String("date", "", "slot start time, e.g. 2021-11-19T10:00")
		description = flag.String("description", "", "product description (open groups)")
		site        = flag.String("site", "", "site description (scheduled groups)")
		checkID     = flag.Int64("check", 0, "check whether a booking id exists")
		cancelID    = flag.Int64("cancel", 0, "cancel a booking id")
		exportPath  = flag.String("export", "", "export the booking list to an .xlsx file")
	)
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "gymbook-main").Logger()

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gwLogger := baseLogger.With().Str("component", "gateway").Logger()
	gw := gateway.New(cfg.API, cfg.Booking, &gwLogger)

	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()
		gw.UseRedisCache(redisClient, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		logger.Info().Str("address", cfg.Redis.Address).Msg("gateway redis cache enabled")
	}

	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	bus := events.NewEventBus()
	subscribeReservationEvents(bus, &logger)

	catLogger := baseLogger.With().Str("component", "catalog").Logger()
	cat := catalog.New(gw, &catLogger)

	clientLogger := baseLogger.With().Str("component", "booking").Logger()
	client := booking.New(gw, cat, bus, cfg.Booking, &clientLogger)

	switch {
	case *exportPath != "":
		bookings, err := gw.MyBookings(ctx)
		if err != nil {
			return err
		}
		if err := export.WriteBookings(*exportPath, bookings); err != nil {
			return err
		}
		fmt.Printf("exported %d bookings to %s\n", len(bookings), *exportPath)
		return nil

	case *checkID != 0:
		present, err := client.CheckBooking(ctx, *checkID)
		if err != nil {
			return err
		}
		fmt.Printf("booking %d present: %v\n", *checkID, present)
		return nil

	case *cancelID != 0:
		if err := client.Cancel(ctx, *cancelID); err != nil {
			return err
		}
		fmt.Printf("booking %d cancelled\n", *cancelID)
		return nil

	case *group != "":
		start, err := time.ParseInLocation(dateLayout, *date, time.Local)
		if err != nil {
			return fmt.Errorf("parse -date: %w", err)
		}
		bkg, err := client.Reserve(ctx, booking.Request{
			Group:       *group,
			Start:       start,
			Description: *description,
			Site:        *site,
		})
		if err != nil {
			return err
		}
		fmt.Printf("booked %s (%s) on %s %s, booking id %s\n",
			bkg.Description, bkg.Site, bkg.StartDate, bkg.StartTime, bkg.ID)
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("nothing to do: pass -group/-date, -check, -cancel or -export")
	}
}

func subscribeReservationEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logEvent := func(level zerolog.Level) events.EventHandler {
		return func(e *events.Event) error {
			logger.WithLevel(level).
				Str("event_type", e.Type).
				RawJSON("payload", e.Payload).
				Msg("reservation event")
			return nil
		}
	}
	bus.Subscribe(events.EventReservationCreated, logEvent(zerolog.InfoLevel))
	bus.Subscribe(events.EventReservationConfirmed, logEvent(zerolog.InfoLevel))
	bus.Subscribe(events.EventReservationCancelled, logEvent(zerolog.InfoLevel))
	bus.Subscribe(events.EventReservationFailed, logEvent(zerolog.WarnLevel))
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
