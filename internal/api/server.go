// ABOUTME: JSON HTTP API over the fitlog storage services, served with gin.
// ABOUTME: Route registration, error mapping, request logging and graceful shutdown.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/storage"
)

// Server holds shared dependencies for all route handlers.
type Server struct {
	svc      *storage.Services
	analyzer *analysis.Analyzer
	router   *gin.Engine
}

// New builds the router. analyzer may be nil, which disables the analyze
// endpoints.
func New(svc *storage.Services, analyzer *analysis.Analyzer) *Server {
	s := &Server{svc: svc, analyzer: analyzer}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	_ = router.SetTrustedProxies(nil)
	s.registerRoutes(router)
	s.router = router
	return s
}

// Handler returns the http.Handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// registerRoutes registers all API routes on the router.
func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/exercises", s.listExercises)
	api.POST("/exercises", s.createExercise)
	api.PUT("/exercises/:id", s.updateExercise)
	api.DELETE("/exercises/:id", s.deleteExercise)

	api.GET("/templates", s.listTemplates)
	api.POST("/templates", s.createTemplate)
	api.GET("/templates/:id", s.getTemplate)
	api.DELETE("/templates/:id", s.deleteTemplate)

	api.GET("/workouts/active", s.getActiveWorkout)
	api.POST("/workouts/active", s.startWorkout)
	api.DELETE("/workouts/active", s.discardWorkout)
	api.POST("/workouts/active/complete", s.completeWorkout)
	api.POST("/workouts/active/exercises", s.addWorkoutExercise)
	api.DELETE("/workouts/active/exercises/:index", s.removeWorkoutExercise)
	api.PUT("/workouts/active/exercises/:index/sets", s.updateWorkoutSets)
	api.GET("/workouts", s.listWorkouts)
	api.GET("/workouts/:id", s.getWorkout)
	api.DELETE("/workouts/:id", s.deleteWorkout)

	api.GET("/meals", s.listMeals)
	api.POST("/meals", s.createMeal)
	api.POST("/meals/analyze", s.analyzeMeal)
	api.GET("/meals/:id", s.getMeal)
	api.DELETE("/meals/:id", s.deleteMeal)
	api.PATCH("/meals/:id/ingredients/:ingredientId", s.updateIngredient)
	api.PUT("/meals/:id/multiplier", s.setMultiplier)

	api.GET("/history/day", s.getDay)
	api.GET("/history/marked", s.getMarked)
	api.PUT("/history/selected", s.setSelected)

	api.GET("/export", s.export)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// fail maps a domain error onto an HTTP status.
func fail(c *gin.Context, err error) {
	var (
		parseErr *analysis.ParseError
		shapeErr *analysis.ShapeError
		upstream *analysis.APIError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrAmbiguousID):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrActiveWorkoutExists), errors.Is(err, storage.ErrNoActiveWorkout):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrBuiltInExercise):
		status = http.StatusForbidden
	case storage.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, analysis.ErrNoInput), errors.Is(err, analysis.ErrNoFeedback):
		status = http.StatusBadRequest
	case errors.Is(err, analysis.ErrMissingAPIKey):
		status = http.StatusPreconditionFailed
	case errors.As(err, &parseErr), errors.As(err, &shapeErr), errors.As(err, &upstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "err", err)
	}
	if raw, ok := analysis.RawResponse(err); ok {
		c.JSON(status, gin.H{"error": err.Error(), "raw": raw})
		return
	}
	apiError(c, status, err.Error())
}
