package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/juriscal/consult-scheduler/internal/config"
	dbpkg "github.com/juriscal/consult-scheduler/internal/db"
	"github.com/juriscal/consult-scheduler/internal/logger"
	"github.com/juriscal/consult-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, change events disabled", zap.Error(err))
			rdb = nil
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine := routes.RegisterRoutes(r, routes.Deps{
		DB:    db,
		Cfg:   cfg,
		Log:   log,
		Redis: rdb,
	})

	// Nightly horizon refresh keeps materialized weekly rows rolling
	// forward for every lawyer with a template.
	c := cron.New()
	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		ids, err := engine.Repo.ListLawyerIDsWithTemplate(ctx)
		if err != nil {
			log.Error("horizon refresh: listing lawyers failed", zap.Error(err))
			return
		}
		for _, id := range ids {
			if err := engine.Apply.ExecuteHorizon(ctx, id); err != nil {
				log.Error("horizon refresh failed",
					zap.String("lawyer_id", id),
					zap.Error(err),
				)
			}
		}
		log.Info("horizon refresh done", zap.Int("lawyers", len(ids)))
	})
	if err != nil {
		log.Fatal("failed to schedule horizon refresh", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
