package router

import (
	"fmt"
	"log/slog"

	"wallet-api/internal/auth"
	"wallet-api/internal/config"
	"wallet-api/internal/events"
	"wallet-api/internal/handler"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires stores, services and handlers onto a gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, pub events.Publisher, log *slog.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if pub == nil {
		pub = events.NoopPublisher{}
	}

	st := store.New(db, cfg.Security.BcryptCost)

	authService, err := auth.NewService(auth.Config{
		Secret:     cfg.JWT.Secret,
		Algorithm:  cfg.JWT.Algorithm,
		Issuer:     cfg.JWT.Issuer,
		TTL:        cfg.JWT.TTL(),
		BcryptCost: cfg.Security.BcryptCost,
	})
	if err != nil {
		return nil, err
	}

	cipher, err := util.NewFieldCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("audit cipher: %w", err)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	r.GET("/healthz", handler.NewHealthHandler(db).Healthz)

	// login/signup need no token
	authHandler := handler.NewAuthHandler(st, authService)
	r.POST("/login", authHandler.Login)
	r.POST("/signup", authHandler.Signup)

	// authenticated routes; reads accept inactive users
	authed := r.Group("")
	authed.Use(
		middleware.AuthMiddleware(authService, st),
		middleware.AuditMiddleware(st, cipher),
	)
	// mutations and own listings need an active user
	active := authed.Group("")
	active.Use(middleware.RequireActive())

	userHandler := handler.NewUserHandler(st)
	authed.GET("/users/profile", userHandler.Profile)
	authed.GET("/users/:username", userHandler.GetUser)
	active.POST("/users/profile/password", userHandler.ChangePassword)

	accountHandler := handler.NewAccountHandler(st, pub)
	active.POST("/accounts", accountHandler.CreateAccount)
	active.GET("/accounts/own", accountHandler.ListOwn)
	authed.GET("/accounts", accountHandler.GetByName)
	active.PATCH("/accounts/:uuid", accountHandler.UpdateAccount)
	active.DELETE("/accounts/:uuid", accountHandler.DeleteAccount)

	categoryHandler := handler.NewCategoryHandler(st, pub)
	active.POST("/categories", categoryHandler.CreateCategory)
	active.GET("/categories/own", categoryHandler.ListOwn)
	authed.GET("/categories/:uuid", categoryHandler.GetCategory)
	active.PATCH("/categories/:uuid", categoryHandler.UpdateCategory)
	active.DELETE("/categories/:uuid", categoryHandler.DeleteCategory)

	recordHandler := handler.NewRecordHandler(st, pub)
	active.POST("/records", recordHandler.CreateRecord)
	active.GET("/records", recordHandler.ListRecords)
	authed.GET("/records/:uuid", recordHandler.GetRecord)
	active.DELETE("/records/:uuid", recordHandler.DeleteRecord)
	active.GET("/records/stats/monthly", recordHandler.MonthlyStats)

	exportHandler := handler.NewExportHandler(st)
	active.GET("/records/export/csv", exportHandler.ExportCSV)
	active.GET("/records/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(st, cipher)
	authed.GET("/logs", logHandler.ListLogs)

	return r, nil
}
