package routes

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/gofiber/fiber/v2"

    "github.com/congo-pay/bank_portal/internal/bankapi"
    "github.com/congo-pay/bank_portal/internal/session"
)

// ErrorHandler renders every error as {"message","status","code","kind"}.
// status is the backend status (0 when unreachable); the HTTP status of the
// portal response is derived from it.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
    return func(c *fiber.Ctx, err error) error {
        if apiErr, ok := bankapi.AsError(err); ok {
            return c.Status(portalStatus(apiErr)).JSON(fiber.Map{
                "message": apiErr.Message,
                "status":  apiErr.Status,
                "code":    apiErr.Code,
                "kind":    apiErr.Kind,
            })
        }

        if errors.Is(err, session.ErrNotAuthenticated) {
            return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
                "message": err.Error(),
                "status":  http.StatusUnauthorized,
                "code":    "",
                "kind":    "session",
            })
        }

        var fe *fiber.Error
        if errors.As(err, &fe) {
            return c.Status(fe.Code).JSON(fiber.Map{
                "message": fe.Message,
                "status":  fe.Code,
                "code":    "",
                "kind":    "portal",
            })
        }

        if logger != nil {
            logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
        }
        return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
            "message": "internal server error",
            "status":  http.StatusInternalServerError,
            "code":    "",
            "kind":    "portal",
        })
    }
}

func portalStatus(e *bankapi.Error) int {
    switch e.Kind {
    case bankapi.KindTransport, bankapi.KindDecode:
        return http.StatusBadGateway
    case bankapi.KindValidation:
        return http.StatusBadRequest
    case bankapi.KindCredentials:
        return http.StatusInternalServerError
    }
    if e.Status == 0 {
        return http.StatusBadGateway
    }
    return e.Status
}
