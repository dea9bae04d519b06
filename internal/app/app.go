package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/cmd/db"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/config"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/middleware"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/service"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/spinlock"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

const apiPrefix = "api/"

// Services holds every handler owner the router needs.
type Services struct {
	Wheel *service.FortuneWheelService
	Live  *service.FortuneWheelWebsocketService
	Users *service.UsersService
	Login *service.LoginService
	Admin *service.AdminService

	// Redis is nil when neither the lock nor the events use it.
	Redis *redis.RedisService
}

func NewServices(cfg *config.Config, conn *gorm.DB, rs *redis.RedisService, locker spinlock.Locker, events service.SpinEvents) Services {
	wheel := service.NewFortuneWheelService(conn, locker, events, service.FortuneWheelOptions{
		SpinDuration: cfg.SpinDuration,
		SpinGrace:    cfg.SpinGrace,
		Cache:        rs,
	})
	return Services{
		Redis: rs,
		Wheel: wheel,
		Live:  service.NewFortuneWheelWebsocketService(wheel, events),
		Users: service.NewUsersService(conn),
		Login: service.NewLoginService(conn, cfg.JWTSecret, cfg.TokenTTL),
		Admin: service.NewAdminService(conn),
	}
}

// NewRouter builds the HTTP handler with CORS and panic recovery around it.
func NewRouter(cfg *config.Config, conn *gorm.DB, svc Services) http.Handler {
	gin.SetMode(cfg.GinMode)
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()))
	router.Use(middleware.BlockBadActorsMiddleware())

	fromTelegram := router.Group("/", middleware.ValidateTelegramInitDataMiddleware(cfg.TelegramBotToken))
	authorized := router.Group("/", middleware.AuthMiddleware(conn, cfg.JWTSecret))
	admin := authorized.Group("/", middleware.AdminMiddleware(conn))

	// router
	{
		router.GET(apiPrefix+"health", healthHandler(conn, svc.Redis))
	}

	// fromTelegram
	{
		fromTelegram.POST(apiPrefix+"users/auth/telegram", svc.Login.TelegramAuth)
	}

	// authorized
	{
		// fortune wheel
		authorized.POST(apiPrefix+"wheel/spin", svc.Wheel.SpinFortuneWheel)
		authorized.GET(apiPrefix+"wheel/state", svc.Wheel.GetFortuneWheelState)
		authorized.GET(apiPrefix+"wheel/info", svc.Wheel.GetFortuneWheelInfo)
		authorized.GET(apiPrefix+"wheel/wins", svc.Wheel.GetRecentWins)
		authorized.GET(apiPrefix+"ws/wheel/live", svc.Live.LiveSpinWebsocketHandler)

		// users
		authorized.GET(apiPrefix+"users", svc.Users.GetUser)
		authorized.GET(apiPrefix+"users/ledger", svc.Users.GetUserLedger)
		authorized.POST(apiPrefix+"users/gift", svc.Users.RedeemGift)
	}

	// admin
	{
		admin.GET(apiPrefix+"admin/prizes", svc.Admin.ListPrizes)
		admin.POST(apiPrefix+"admin/prizes", svc.Admin.CreatePrize)
		admin.PUT(apiPrefix+"admin/prizes/:id", svc.Admin.UpdatePrize)
		admin.DELETE(apiPrefix+"admin/prizes/:id", svc.Admin.DeletePrize)
		admin.POST(apiPrefix+"admin/users/:id/balance", svc.Admin.ChangeBalance)
		admin.POST(apiPrefix+"admin/gifts", svc.Admin.CreateGiftCode)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.TelegramInitDataHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.Logger()),
		handlers.PrintRecoveryStack(true),
	)

	return recovery(cors(router))
}

func healthHandler(conn *gorm.DB, rs *redis.RedisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err == nil && rs != nil {
			err = rs.Client().Ping(c.Request.Context()).Err()
		}
		if err != nil {
			logger.Error("%v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func newLocker(cfg *config.Config, conn *gorm.DB, rs *redis.RedisService) spinlock.Locker {
	if cfg.LockBackend == "sql" {
		return spinlock.NewSQLLocker(conn)
	}
	return spinlock.NewRedisLocker(rs, spinlock.DefaultRedisKey)
}

func newEvents(cfg *config.Config, rs *redis.RedisService) service.SpinEvents {
	if cfg.EventsBackend == "local" {
		return service.NewLocalSpinEvents()
	}
	return service.NewRedisSpinEvents(rs)
}

func Start() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}
	if err = logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		logger.Fatal("%v", err)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	if cfg.AutoMigrate {
		if err = models.AutoMigrate(conn); err != nil {
			logger.Fatal("Failed to migrate: %v", err)
		}
	}

	var rs *redis.RedisService
	if cfg.UsesRedis() {
		if cfg.RedisAddr == "" {
			logger.Fatal("REDIS_ADDR is required when the lock or events backend is redis")
		}
		rs, err = redis.NewRedisService(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("Failed to connect to redis: %v", err)
		}
		defer rs.Close()
	}

	services := NewServices(cfg, conn, rs, newLocker(cfg, conn, rs), newEvents(cfg, rs))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, conn, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Listening on %s (lock=%s, events=%s)", cfg.HTTPAddr, cfg.LockBackend, cfg.EventsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown: %v", err)
	}

	logger.Info("Server exiting")
}
