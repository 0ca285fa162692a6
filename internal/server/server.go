package server

import (
    "context"
    "time"

    "github.com/gofiber/fiber/v2"

    "github.com/congo-pay/bank_portal/internal/config"
    "github.com/congo-pay/bank_portal/internal/routes"
)

// Server wraps the Fiber application hosting the portal.
type Server struct {
    app *fiber.App
    cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
    app := fiber.New(fiber.Config{
        AppName:      d.Cfg.AppName,
        ReadTimeout:  30 * time.Second,
        // Leave room for the slowest backend call behind a route.
        WriteTimeout: d.Cfg.APITimeout + 5*time.Second,
        ErrorHandler: routes.ErrorHandler(d.Logger),
    })

    if err := routes.Setup(app, d); err != nil {
        return nil, err
    }

    return &Server{app: app, cfg: d.Cfg}, nil
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
    return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
    return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
    return s.app.ShutdownWithContext(ctx)
}
