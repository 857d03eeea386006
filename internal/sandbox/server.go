// Package sandbox is a local storefront backend speaking the same REST and
// websocket protocol as the production API. It backs the integration tests and
// the `burger sandbox` command.
package sandbox

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"stellarburger/internal/logging"
	"stellarburger/internal/monitoring"
)

// Options configure a Server
type Options struct {
	DB        *gorm.DB
	Secret    []byte
	AccessTTL time.Duration
	// CookTime is how long an order stays pending before the kitchen
	// reports it done.
	CookTime time.Duration
	Monitor  *monitoring.Monitor
	Logger   *zap.Logger
	// Clock replaces time.Now, for tests.
	Clock func() time.Time
}

// Server handles storefront API requests
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	secret    []byte
	accessTTL time.Duration
	cookTime  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	hub       *hub

	// serializes order numbering
	ordersMu sync.Mutex
}

// NewServer migrates the database and builds the router.
func NewServer(opts Options) (*Server, error) {
	if opts.DB == nil {
		return nil, errors.New("sandbox: database is required")
	}
	if len(opts.Secret) == 0 {
		return nil, errors.New("sandbox: jwt secret is required")
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 20 * time.Minute
	}
	if opts.CookTime <= 0 {
		opts.CookTime = 15 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if err := migrate(opts.DB); err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		db:        opts.DB,
		secret:    opts.Secret,
		accessTTL: opts.AccessTTL,
		cookTime:  opts.CookTime,
		now:       opts.Clock,
		logger:    logging.OrNop(opts.Logger),
		hub:       newHub(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes(opts.Monitor)
	return s, nil
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes(monitor *monitoring.Monitor) {
	if monitor != nil {
		s.router.GET("/metrics", gin.WrapH(monitor.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/ingredients", s.handleIngredients)

		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)
		api.POST("/auth/logout", s.handleLogout)
		api.POST("/auth/token", s.handleToken)
		api.GET("/auth/user", s.AuthMiddleware(), s.handleGetUser)
		api.PATCH("/auth/user", s.AuthMiddleware(), s.handlePatchUser)

		api.POST("/password-reset", s.handleForgotPassword)
		api.POST("/password-reset/reset", s.handleResetPassword)

		api.GET("/orders/all", s.handleFeed)
		api.GET("/orders/all/ws", s.handleFeedSocket)
		api.GET("/orders", s.AuthMiddleware(), s.handleUserOrders)
		api.POST("/orders", s.AuthMiddleware(), s.handleCreateOrder)
		api.GET("/orders/:number", s.handleOrderByNumber)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close disconnects every feed subscriber.
func (s *Server) Close() {
	s.hub.closeAll()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
