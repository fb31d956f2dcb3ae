// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nextday/internal/config"
	"nextday/internal/handlers"
	"nextday/internal/metrics"
	"nextday/internal/repositories"
	"nextday/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, cfg *config.Server, logger *zap.Logger, m *metrics.Collector, mailer services.Mailer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger, m))

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	corsConfig.AllowCredentials = true
	// プリフライトリクエストの結果をキャッシュする時間
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// リポジトリ
	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewSQLResetTokenRepo(db)
	listRepo := repositories.NewTodoListRepository(db)
	todoRepo := repositories.NewTodoRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	// サービス
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	sessionService := services.NewSessionService(sessionRepo, jwtService)
	userService := services.NewUserService(userRepo, resetRepo, mailer, cfg.FrontendURL, logger)
	listService := services.NewTodoListService(listRepo)
	todoService := services.NewTodoService(todoRepo, listService)

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, sessionService, logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger)
	listHandler := handlers.NewTodoListHandler(listService, m, logger)
	todoHandler := handlers.NewTodoHandler(todoService, m, logger)

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.POST("/api/register", userHandler.RegisterHandler)
	r.POST("/api/login", userHandler.LoginHandler)
	r.POST("/api/forgot-password", userHandler.ForgotPasswordHandler)
	r.POST("/api/reset-password/:token", userHandler.ResetPasswordHandler)

	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware(jwtService, sessionService, logger))
	{
		authorized.POST("/logout", sessionHandler.LogoutHandler)
		authorized.GET("/profile", userHandler.ProfileHandler)
		authorized.PUT("/profile", userHandler.UpdateProfileHandler)
		authorized.PUT("/profile/password", userHandler.ChangePasswordHandler)
		authorized.GET("/profile/sessions", sessionHandler.ListSessionsHandler)
		authorized.DELETE("/profile/sessions/:id", sessionHandler.RevokeSessionHandler)

		authorized.GET("/todo-lists", listHandler.GetListsHandler)
		authorized.POST("/todo-lists", listHandler.CreateListHandler)
		authorized.PUT("/todo-lists/:id", listHandler.UpdateListHandler)
		authorized.DELETE("/todo-lists/:id", listHandler.DeleteListHandler)

		authorized.GET("/todos", todoHandler.GetTodosHandler)
		authorized.POST("/todos", todoHandler.CreateTodoHandler)
		authorized.PATCH("/todos/:id", todoHandler.UpdateTodoHandler)
		authorized.DELETE("/todos/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from NextDay!"})
}
