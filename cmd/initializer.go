package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"drivaBack/internal/config"
	"drivaBack/internal/handlers"
	"drivaBack/internal/repositories"
	"drivaBack/internal/services"
	"drivaBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	signingKey string

	userRepo *repositories.UserRepository

	messageService *services.MessageService

	userHandler         *handlers.UserHandler
	carHandler          *handlers.CarHandler
	bookingHandler      *handlers.BookingHandler
	notificationHandler *handlers.NotificationHandler
	chatHandler         *handlers.ChatHandler
	messageHandler      *handlers.MessageHandler
	reviewHandler       *handlers.ReviewHandler

	wsManager *WebSocketManager
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		errorLog.Fatal("JWT_SIGNING_KEY is not set")
	}

	tokenManager, err := utils.NewManager(signingKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	storage, err := utils.NewStorage(utils.StorageConfig{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		errorLog.Fatal(err)
	}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	carRepo := &repositories.CarRepository{DB: db}
	bookingRepo := &repositories.BookingRepository{DB: db}
	notificationRepo := &repositories.NotificationRepository{DB: db}
	chatRepo := &repositories.ChatRepository{DB: db}
	messageRepo := &repositories.MessageRepository{DB: db}
	reviewRepo := &repositories.ReviewRepository{DB: db}
	cache := repositories.NewAvailabilityCache(rdb, 5*time.Minute)

	// Services
	notificationService := &services.NotificationService{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Cache:            cache,
		FCM:              fcmClient,
		ErrorLog:         errorLog,
	}
	userService := &services.UserService{
		UserRepo:     userRepo,
		TokenManager: tokenManager,
		SigningKey:   signingKey,
	}
	carService := &services.CarService{
		CarRepo:  carRepo,
		Notifier: notificationService,
	}
	bookingService := &services.BookingService{
		Bookings: bookingRepo,
		Cars:     carRepo,
		Notifier: notificationService,
		Calendar: cache,
	}
	chatService := &services.ChatService{ChatRepo: chatRepo}
	messageService := &services.MessageService{
		MessageRepo: messageRepo,
		ChatRepo:    chatRepo,
		Notifier:    notificationService,
	}
	reviewService := &services.ReviewService{
		ReviewRepo:  reviewRepo,
		BookingRepo: bookingRepo,
		CarRepo:     carRepo,
		Notifier:    notificationService,
	}

	return &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		db:             db,
		signingKey:     signingKey,
		userRepo:       userRepo,
		messageService: messageService,

		userHandler:         &handlers.UserHandler{Service: userService},
		carHandler:          &handlers.CarHandler{Service: carService, Storage: storage},
		bookingHandler:      &handlers.BookingHandler{Service: bookingService},
		notificationHandler: &handlers.NotificationHandler{Service: notificationService},
		chatHandler:         &handlers.ChatHandler{Service: chatService},
		messageHandler:      &handlers.MessageHandler{Service: messageService},
		reviewHandler:       &handlers.ReviewHandler{Service: reviewService},
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
