// Package server is a stand-in recognition backend for local development.
// It honors the /enroll and /transcribe wire contract but performs no
// recognition: transcriptions are placeholders naming the enrolled speakers.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/alkime/speakerid/internal/config"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine

	mu       sync.Mutex
	enrolled []string
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Enrolled returns the names from the last successful enrollment.
func (s *Server) Enrolled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.enrolled...)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/enroll", s.handleEnroll)
	s.router.POST("/transcribe", s.handleTranscribe)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "speakerid",
	})
}

func (s *Server) handleEnroll(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "Expected multipart form data")
		return
	}

	n, err := strconv.Atoi(first(form.Value["num_speakers"]))
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, "num_speakers must be a positive integer")
		return
	}

	names := form.Value["names"]
	files := form.File["files"]
	if len(names) != n || len(files) != n {
		fail(c, http.StatusBadRequest, fmt.Sprintf(
			"Expected %d names and %d files, got %d names and %d files", n, n, len(names), len(files)))
		return
	}

	for i := range n {
		if strings.TrimSpace(names[i]) == "" {
			fail(c, http.StatusBadRequest, fmt.Sprintf("Speaker %d has no name", i+1))
			return
		}
		if files[i].Size == 0 {
			fail(c, http.StatusBadRequest, fmt.Sprintf("Voice sample for %s is empty", names[i]))
			return
		}
	}

	s.mu.Lock()
	s.enrolled = append([]string(nil), names...)
	s.mu.Unlock()

	s.logger.Info("Speakers enrolled", "speakers", n)
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Enrolled %d speakers", n)})
}

func (s *Server) handleTranscribe(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		fail(c, http.StatusBadRequest, "No audio file provided")
		return
	}

	speakers := s.Enrolled()
	if len(speakers) == 0 {
		fail(c, http.StatusConflict, "No speakers enrolled")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcription": fmt.Sprintf("%s (%d bytes). Speakers: %s.",
			fh.Filename, fh.Size, strings.Join(speakers, ", ")),
	})
}

func fail(c *gin.Context, status int, reason string) {
	c.JSON(status, gin.H{"error": reason})
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
