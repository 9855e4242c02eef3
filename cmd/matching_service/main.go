package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	chatapp "dating_match_service/internal/chat/app"
	chatrepo "dating_match_service/internal/chat/repository"
	"dating_match_service/internal/matching/app"
	"dating_match_service/internal/matching/repository"
	"dating_match_service/internal/matching/router"
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
	logger.Log = logger.Initialize(config.EnvConfig.MatchingService, config.EnvConfig.MatchingServiceLogPath)
	cfg := config.LoadConfig[config.Matching](config.EnvConfig.MatchingService, config.EnvConfig.MatchingServiceYAMLPath)

	ctx := context.Background()

	// postgres, swipe ledger and match rows
	pgConnStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", pgConnStr)),
			zap.Error(err),
		)
	}
	defer pool.Close()
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		logger.Log.Fatal("ensure matching schema failed", zap.Error(err))
	}

	// the same postgres through gorm, for the chat room directory
	gormDB, err := database.NewGormConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect gorm postgreSQL after retries", zap.Error(err))
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

	// kafka, swipe event stream for the recommendation pipeline
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("build kafka writer failed", zap.Error(err))
	}
	defer kafkaWriter.Close()

	userRepo := userrepo.NewUserRepository(pool)
	swipeRepo := repository.NewSwipeRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	events := repository.NewKafkaEventPublisher(kafkaWriter)
	feedRepo := notifyrepo.NewMongoFeedRepository(mongo.Database)
	notifier := notifyapp.NewDispatchUseCase(feedRepo, database.NewRabbitRepository(rabbitCh), cfg.RabbitMQ.Queue)

	rooms := chatapp.NewRoomUseCase(chatrepo.NewRoomRepository(gormDB), chatrepo.NewMessageRepository(gormDB), nil, userRepo)

	swipeUC := app.NewSwipeUseCase(swipeRepo, matchRepo, userRepo, rooms, notifier, events, cfg.SwipeUpdateWindow)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MatchingServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, &app.MatchingHandler{Usecase: swipeUC})

	port := ":" + cfg.Port
	log.Printf("Matching Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
