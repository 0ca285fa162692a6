package routes

import (
    "net/http"

    "github.com/gofiber/fiber/v2"

    "github.com/congo-pay/bank_portal/internal/bankapi"
    "github.com/congo-pay/bank_portal/internal/notification"
    "github.com/congo-pay/bank_portal/internal/session"
)

func renderSnapshot(snap session.Snapshot) fiber.Map {
    return fiber.Map{
        "state":   snap.State,
        "view":    snap.View,
        "kind":    snap.Session.Kind(),
        "session": snap.Session,
    }
}

// RegisterSessionRoutes wires sign-in, registration and logout through the shell.
func RegisterSessionRoutes(r fiber.Router, shell *session.Shell, api *bankapi.Client, rateLimiter fiber.Handler) {
    r.Get("/session", func(c *fiber.Ctx) error {
        return c.JSON(renderSnapshot(shell.Snapshot()))
    })

    group := r.Group("/session")
    group.Post("/login", limited(rateLimiter, func(c *fiber.Ctx) error {
        var req bankapi.LoginRequest
        if err := c.BodyParser(&req); err != nil {
            return fiber.NewError(http.StatusBadRequest, err.Error())
        }
        snap, err := shell.Login(c.UserContext(), req)
        if err != nil {
            return err
        }
        return c.JSON(renderSnapshot(snap))
    })...)

    group.Post("/admin/login", limited(rateLimiter, func(c *fiber.Ctx) error {
        var req bankapi.LoginRequest
        if err := c.BodyParser(&req); err != nil {
            return fiber.NewError(http.StatusBadRequest, err.Error())
        }
        snap, err := shell.AdminLogin(c.UserContext(), req)
        if err != nil {
            return err
        }
        return c.JSON(renderSnapshot(snap))
    })...)

    group.Post("/register/initiate", func(c *fiber.Ctx) error {
        var req bankapi.InitiateRegistrationRequest
        if err := c.BodyParser(&req); err != nil {
            return fiber.NewError(http.StatusBadRequest, err.Error())
        }
        ack, err := api.InitiateRegistration(c.UserContext(), req)
        if err != nil {
            return err
        }
        return c.Status(http.StatusAccepted).JSON(ack)
    })

    group.Post("/register/verify-email", func(c *fiber.Ctx) error {
        var req bankapi.VerifyEmailRequest
        if err := c.BodyParser(&req); err != nil {
            return fiber.NewError(http.StatusBadRequest, err.Error())
        }
        ack, err := api.VerifyEmail(c.UserContext(), req)
        if err != nil {
            return err
        }
        return c.JSON(ack)
    })

    group.Post("/register/complete", func(c *fiber.Ctx) error {
        var req bankapi.CompleteRegistrationRequest
        if err := c.BodyParser(&req); err != nil {
            return fiber.NewError(http.StatusBadRequest, err.Error())
        }
        snap, err := shell.CompleteRegistration(c.UserContext(), req)
        if err != nil {
            return err
        }
        return c.Status(http.StatusCreated).JSON(renderSnapshot(snap))
    })

    group.Post("/logout", func(c *fiber.Ctx) error {
        snap, err := shell.Logout(c.UserContext())
        if err != nil {
            return err
        }
        return c.JSON(renderSnapshot(snap))
    })
}

// RegisterNotificationRoutes exposes pending notices; reading drains them.
func RegisterNotificationRoutes(r fiber.Router, inbox *notification.Inbox) {
    r.Get("/notifications", func(c *fiber.Ctx) error {
        return c.JSON(fiber.Map{"notifications": inbox.Drain()})
    })
}

func limited(rateLimiter fiber.Handler, h fiber.Handler) []fiber.Handler {
    if rateLimiter == nil {
        return []fiber.Handler{h}
    }
    return []fiber.Handler{rateLimiter, h}
}
