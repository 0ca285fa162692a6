package routes

import (
    "context"
    "net/http"
    "time"

    "github.com/gofiber/fiber/v2"
    "github.com/gofiber/fiber/v2/middleware/adaptor"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/congo-pay/bank_portal/internal/bankapi"
)

// RegisterHealthRoutes adds a readiness endpoint covering the credential
// store, optional Postgres/Redis and the banking backend.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
    app.Get("/healthz", func(c *fiber.Ctx) error {
        ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
        defer cancel()

        checks := fiber.Map{}
        healthy := true
        record := func(name string, err error) {
            if err != nil {
                checks[name] = err.Error()
                healthy = false
                return
            }
            checks[name] = "ok"
        }

        _, err := d.Store.IsAuthenticated(ctx)
        record("token_store", err)
        if d.DB != nil {
            record("postgres", d.DB.Ping(ctx))
        }
        if d.Cache != nil {
            record("redis", d.Cache.Ping(ctx).Err())
        }
        // Any answer, even a 404, means the backend is reachable.
        if _, err := d.API.Do(ctx, bankapi.Request{Method: http.MethodGet, Path: "/", Route: "healthcheck", NoAuth: true}); bankapi.IsUnreachable(err) {
            record("backend", err)
        } else {
            record("backend", nil)
        }

        status := http.StatusOK
        if !healthy {
            status = http.StatusServiceUnavailable
        }
        return c.Status(status).JSON(fiber.Map{
            "status":    checks,
            "store":     d.Cfg.TokenStore,
            "timestamp": time.Now().UTC().Format(time.RFC3339Nano),
        })
    })
}

// RegisterMetricsRoute exposes Prometheus metrics from g, or the default
// registry when g is nil.
func RegisterMetricsRoute(app *fiber.App, g prometheus.Gatherer) {
    if g == nil {
        g = prometheus.DefaultGatherer
    }
    app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}
