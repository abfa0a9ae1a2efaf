package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-codec/internal/codec"
	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/pkg/einvoice"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	Logger       zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
		log:    config.Logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/convert", s.handleConvert)
		v1.POST("/detect", s.handleDetect)
		v1.POST("/validate", s.handleValidate)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("address", s.config.Address).Msg("starting server")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConvert re-serializes the posted document into the requested target
// rendition. Target selection comes from query parameters: format (cii|ubl),
// version (1.0|2.0|2.1|2.2|2.3) and profile (minimum...xrechnung).
func (s *Server) handleConvert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	format := model.ParseFormat(c.DefaultQuery("format", "cii"))
	version := model.ParseVersion(c.DefaultQuery("version", "2.3"))
	profile := model.ParseProfile(c.DefaultQuery("profile", "en16931"))
	if format == model.FormatUnknown || version == model.VersionUnknown || profile == model.ProfileUnknown {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown target format, version or profile"})
		return
	}

	inv, err := codec.LoadBytes(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "failed to parse document", Details: err.Error()})
		return
	}

	out, err := codec.SaveBytes(inv, format, version, profile)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "failed to serialize document", Details: err.Error()})
		return
	}

	s.log.Debug().
		Str("number", inv.Number).
		Str("format", format.String()).
		Str("version", version.String()).
		Msg("converted document")
	c.Data(http.StatusOK, "application/xml", out)
}

func (s *Server) handleDetect(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	format, version, err := codec.DetectFormatBytes(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "unrecognized document", Details: err.Error()})
		return
	}

	response := DetectResponse{Format: format.String(), Version: version.String()}
	if inv, err := codec.LoadBytes(body); err == nil {
		response.Profile = inv.Profile.String()
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	format := model.ParseFormat(c.DefaultQuery("format", ""))
	version := model.ParseVersion(c.DefaultQuery("version", ""))
	profile := model.ParseProfile(c.DefaultQuery("profile", ""))

	inv, err := codec.LoadBytes(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:  false,
			Errors: []string{err.Error()},
		})
		return
	}

	// absent target parameters validate against the document's own rendition
	if format == model.FormatUnknown {
		format = inv.Format
	}
	if version == model.VersionUnknown {
		version = inv.Version
	}
	if profile == model.ProfileUnknown {
		profile = inv.Profile
	}

	var errors []string
	for _, v := range einvoice.Validate(inv, format, version, profile) {
		errors = append(errors, v.Message)
	}
	var warnings []string
	for _, w := range inv.Warnings {
		warnings = append(warnings, w.String())
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	})
}
