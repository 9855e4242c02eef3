package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"dating_match_service/internal/chat/app"
	"dating_match_service/internal/chat/domain"
	"dating_match_service/internal/chat/repository"
	"dating_match_service/internal/chat/router"
	notifyapp "dating_match_service/internal/notification/app"
	notifyrepo "dating_match_service/internal/notification/repository"
	userrepo "dating_match_service/internal/user/repository"
	"dating_match_service/pkg/config"
	"dating_match_service/pkg/database"
	"dating_match_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx := context.Background()

	// postgres through gorm, rooms and messages
	pgConnStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	gormDB, err := database.NewGormConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect gorm postgreSQL after retries",
			zap.String("address", fmt.Sprintf("[%s]", pgConnStr)),
			zap.Error(err),
		)
	}
	if err := gormDB.AutoMigrate(&domain.ChatRoom{}, &domain.Message{}, &domain.UserMessageVisibility{}); err != nil {
		logger.Log.Fatal("chat auto migrate failed", zap.Error(err))
	}

	// the same postgres through pgx, read-only user directory
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries", zap.Error(err))
	}
	defer pool.Close()

	// redis, presence set and pub/sub fan-out
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// mongo, notification feed
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d",
		cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.Mongo.RetryCount,
		RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
	}, cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// rabbitmq, notification push queue
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port),
		RetryCount:    5,
		RetryInterval: 2,
	})
	if err != nil {
		logger.Log.Fatal("connect rabbitmq failed", zap.Error(err))
	}
	defer rabbitConn.Close()
	rabbitCh, err := database.GetRabbitMQChannelWithRetry(rabbitConn, 5, 2)
	if err != nil {
		logger.Log.Fatal("open rabbitmq channel failed", zap.Error(err))
	}
	if _, err := rabbitCh.QueueDeclare(cfg.RabbitMQ.Queue, true, false, false, false, nil); err != nil {
		logger.Log.Fatal("declare rabbitmq queue failed", zap.Error(err))
	}

	// minio, chat attachments
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("connect minio failed", zap.Error(err))
	}

	userRepo := userrepo.NewUserRepository(pool)
	roomRepo := repository.NewRoomRepository(gormDB)
	msgRepo := repository.NewMessageRepository(gormDB)
	presenceRepo := repository.NewPresenceRepository(redisClient)
	pubsub := repository.NewRedisPubSub(redisClient)
	storage := repository.NewMinioFileStorage(minioClient)
	feedRepo := notifyrepo.NewMongoFeedRepository(mongo.Database)
	notifier := notifyapp.NewDispatchUseCase(feedRepo, database.NewRabbitRepository(rabbitCh), cfg.RabbitMQ.Queue)

	roomUC := app.NewRoomUseCase(roomRepo, msgRepo, presenceRepo, userRepo)
	messageUC := app.NewMessageUseCase(roomRepo, msgRepo, pubsub, userRepo, notifier, storage,
		cfg.MinIO.BaseURL, cfg.RecallWindow, cfg.PageLimitCap)
	presenceUC := app.NewPresenceUseCase(presenceRepo, roomRepo, pubsub)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		&app.ChatHandler{RoomUC: roomUC, MessageUC: messageUC},
		app.NewChatWebsocketHandler(roomUC, messageUC, presenceUC, pubsub),
	)

	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
