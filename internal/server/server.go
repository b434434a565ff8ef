// Package server exposes card generation over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	cardgen "github.com/alnah/go-cardgen"
)

// Route paths.
const (
	RouteGenerate = "/api/gerar"
	RouteHealth   = "/api/health"
	RouteMetrics  = "/metrics"

	formField = "file"
)

// Defaults applied to a zero Config.
const (
	DefaultArchiveName = "cards_jornal.zip"
	DefaultBodyLimit   = 32 << 20
	DefaultTimeout     = 5 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

// Generator is the card pipeline the server drives. *cardgen.Generator
// implements it.
type Generator interface {
	Generate(ctx context.Context, input []byte, sink io.Writer) (*cardgen.Report, error)
}

// Config configures the HTTP adapter.
type Config struct {
	Addr         string
	ArchiveName  string        // Content-Disposition filename of the response
	BodyLimit    int           // bytes; 0 uses DefaultBodyLimit
	WriteTimeout time.Duration // 0 uses DefaultTimeout
	Metrics      http.Handler  // served on /metrics when non-nil
}

// Server handles HTTP requests for card archives.
type Server struct {
	app    *fiber.App
	gen    Generator
	cfg    Config
	logger *zap.Logger
}

// New creates a Server. A nil logger disables request logging.
func New(gen Generator, cfg Config, logger *zap.Logger) *Server {
	if cfg.ArchiveName == "" {
		cfg.ArchiveName = DefaultArchiveName
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
	})

	s := &Server{app: app, gen: gen, cfg: cfg, logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger())

	s.app.Get(RouteHealth, s.handleHealth)
	s.app.Post(RouteGenerate, s.handleGenerate)
	if s.cfg.Metrics != nil {
		s.app.Get(RouteMetrics, adaptor.HTTPHandler(s.cfg.Metrics))
	}
}

// App returns the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		s.logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleGenerate renders the uploaded sheet. The archive is buffered so a
// failed run never sends a partial zip.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	fh, err := c.FormFile(formField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file provided"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable upload"})
	}
	input, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable upload"})
	}

	var buf bytes.Buffer
	report, err := s.gen.Generate(c.UserContext(), input, &buf)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, cardgen.ErrMalformedInput) {
			status = fiber.StatusUnprocessableEntity
		}
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["run_id"] = report.RunID
		}
		return c.Status(status).JSON(body)
	}

	c.Attachment(s.cfg.ArchiveName)
	c.Set("X-Run-Id", report.RunID)
	c.Set("X-Cards-Kept", strconv.Itoa(report.Kept))
	c.Set("X-Cards-Skipped", strconv.Itoa(report.Skipped()))
	return c.Send(buf.Bytes())
}
