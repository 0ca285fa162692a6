package routes

import (
    "fmt"
    "log/slog"
    "net/http"
    "time"

    "github.com/gofiber/fiber/v2"
    "github.com/gofiber/fiber/v2/middleware/logger"
    "github.com/gofiber/fiber/v2/middleware/recover"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/redis/go-redis/v9"

    "github.com/congo-pay/bank_portal/internal/bankapi"
    "github.com/congo-pay/bank_portal/internal/config"
    "github.com/congo-pay/bank_portal/internal/middleware"
    "github.com/congo-pay/bank_portal/internal/notification"
    "github.com/congo-pay/bank_portal/internal/session"
    "github.com/congo-pay/bank_portal/internal/tokenstore"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
    Cfg      config.Config
    API      *bankapi.Client
    Shell    *session.Shell
    Store    *tokenstore.Store
    Inbox    *notification.Inbox
    Gatherer prometheus.Gatherer
    DB       *pgxpool.Pool
    Cache    *redis.Client
    Logger   *slog.Logger
}

// Setup configures middlewares and all portal routes.
func Setup(app *fiber.App, d Deps) error {
    if d.API == nil || d.Shell == nil || d.Store == nil {
        return fmt.Errorf("api client, session shell and token store are required")
    }
    // A memory store loses the credential on restart; only allow it locally.
    if !d.Cfg.IsDev() && d.Cfg.TokenStore == config.StoreMemory {
        return fmt.Errorf("TOKEN_STORE=%s is not allowed when APP_ENV=%s", config.StoreMemory, d.Cfg.AppEnv)
    }
    if d.Inbox == nil {
        d.Inbox = notification.NewInbox(0)
    }

    app.Use(recover.New())
    app.Use(middleware.RequestID())
    if d.Cfg.IsDev() {
        // Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
        app.Use(logger.New(logger.Config{
            Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
            TimeFormat: "15:04:05",
            TimeZone:   "Local",
        }))
    } else {
        app.Use(middleware.Audit(d.Logger))
    }
    if d.Cache != nil {
        app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
    }

    RegisterHealthRoutes(app, d)
    RegisterMetricsRoute(app, d.Gatherer)

    api := app.Group("/api/v1")
    api.Get("/ping", func(c *fiber.Ctx) error {
        return c.Status(http.StatusOK).JSON(fiber.Map{
            "status":     "ok",
            "request_id": middleware.RequestIDFrom(c),
            "backend":    d.API.BaseURL(),
            "timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
        })
    })

    rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttempts)
    RegisterSessionRoutes(api, d.Shell, d.API, rateLimiter)
    RegisterNotificationRoutes(api, d.Inbox)
    RegisterCustomerRoutes(api, d.API, middleware.RequireSession(d.Shell, tokenstore.KindCustomer))
    RegisterAdminRoutes(api, d.API, middleware.RequireSession(d.Shell, tokenstore.KindAdmin))

    return nil
}
