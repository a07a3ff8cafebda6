package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/snehachill/meal-booking/internal/config"
	"github.com/snehachill/meal-booking/internal/database"
	"github.com/snehachill/meal-booking/internal/handler"
	"github.com/snehachill/meal-booking/internal/logger"
	"github.com/snehachill/meal-booking/internal/middleware"
	"github.com/snehachill/meal-booking/internal/queue"
	"github.com/snehachill/meal-booking/internal/repository"
	"github.com/snehachill/meal-booking/internal/router"
	"github.com/snehachill/meal-booking/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log, err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	if err != nil {
		logrus.WithError(err).Fatal("logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	defer db.Close()
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("migrate")
		}
		log.Info("schema applied")
	}

	var rdb *redis.Client
	if rdb, err = config.NewRedisClient(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable; cache and rate limit disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	meals := repository.NewMealRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	loc := cfg.Location()
	bookingSvc := &service.BookingService{
		Meals:      meals,
		Attendance: attendance,
		Feedback:   feedback,
		Events:     service.NewPublisher(cfg.AMQPURL),
		Now:        time.Now,
		Log:        log,
	}
	mealSvc := &service.MealService{Meals: meals, Bookings: attendance, Now: time.Now, Location: loc}
	dashSvc := &service.DashboardService{
		Users:     users,
		Meals:     meals,
		Bookings:  attendance,
		Feedback:  feedback,
		TrendMode: cfg.TrendMode,
		Location:  loc,
		Now:       time.Now,
	}

	if cfg.QueueConsumer {
		c := &queue.Consumer{URL: cfg.AMQPURL, LedgerPath: cfg.LedgerPath, Log: log}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
			} else {
				entry.Info("request")
			}
			return nil
		},
	}))
	e.Use(middleware.Session(cfg.JWTSecret))

	limit := middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), limit)
	router.RegisterUser(e, handler.NewMealHandler(mealSvc, bookingSvc), limit)
	router.RegisterAdmin(e, handler.NewAdminHandler(mealSvc, dashSvc, users), cache)
	router.RegisterPages(e)

	go func() {
		addr := ":" + cfg.Port
		log.WithField("env", cfg.Env).Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
