package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/socialapp/social-service/internal/config"
	"github.com/socialapp/social-service/internal/handler"
	"github.com/socialapp/social-service/internal/repository"
	"github.com/socialapp/social-service/internal/repository/mongodb"
	"github.com/socialapp/social-service/internal/server"
	"github.com/socialapp/social-service/internal/service"
	"github.com/socialapp/social-service/internal/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	mongoConfig := config.MongoConfig{
		URI:    os.Getenv("MONGO_URI"),
		DBName: viper.GetString("mongo.database"),
	}
	db, err := mongodb.DB(ctx, mongoConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to mongodb: %s", err.Error())
	}
	logger.Info("Successfully connected to MongoDB")

	redisOptions := &redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	}
	rdb := redis.NewClient(redisOptions)
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	media, err := storage.NewS3Store(config.StorageConfig{
		Region:    viper.GetString("storage.region"),
		Bucket:    viper.GetString("storage.bucket"),
		CDNPrefix: viper.GetString("storage.cdn_prefix"),
	})
	if err != nil {
		logger.Sugar().Panicf("failed to initialize media storage: %s", err.Error())
	}

	repos := repository.New(db, rdb)
	services := service.New(logger, repos, media)
	handlers := handler.New(services)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil {
			logger.Sugar().Errorf("http server stopped: %s", err.Error())
		}
	}()

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
