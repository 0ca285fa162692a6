package routes

import (
    "fmt"
    "net/http"

    "github.com/gofiber/fiber/v2"

    "github.com/congo-pay/bank_portal/internal/bankapi"
)

func pageFrom(c *fiber.Ctx) bankapi.PageRequest {
    return bankapi.PageRequest{Page: c.QueryInt("page", 0), Size: c.QueryInt("size", 0)}
}

func idParam(c *fiber.Ctx) (int64, error) {
    id, err := c.ParamsInt("id")
    if err != nil || id <= 0 {
        return 0, fiber.NewError(http.StatusBadRequest, "invalid id")
    }
    return int64(id), nil
}

// RegisterCustomerRoutes wires customer views; guard must admit only customers.
func RegisterCustomerRoutes(r fiber.Router, api *bankapi.Client, guard fiber.Handler) {
    r.Get("/accounts", guard, func(c *fiber.Ctx) error {
        accounts, err := api.Accounts(c.UserContext())
        if err != nil {
            return err
        }
        return c.JSON(fiber.Map{"accounts": accounts})
    })

    r.Get("/accounts/:id/transactions", guard, func(c *fiber.Ctx) error {
        id, err := idParam(c)
        if err != nil {
            return err
        }
        page, err := api.AccountTransactions(c.UserContext(), id, pageFrom(c))
        if err != nil {
            return err
        }
        return c.JSON(page)
    })

    r.Get("/accounts/:id/passbook/download", guard, func(c *fiber.Ctx) error {
        id, err := idParam(c)
        if err != nil {
            return err
        }
        d, err := api.DownloadPassbook(c.UserContext(), id)
        if err != nil {
            return err
        }
        filename := d.Filename
        if filename == "" {
            filename = fmt.Sprintf("passbook-%d.pdf", id)
        }
        contentType := d.ContentType
        if contentType == "" {
            contentType = "application/octet-stream"
        }
        c.Attachment(filename)
        c.Set(fiber.HeaderContentType, contentType)
        return c.Send(d.Data)
    })

    r.Get("/kyc/status", guard, func(c *fiber.Ctx) error {
        status, err := api.KYCStatus(c.UserContext())
        if err != nil {
            return err
        }
        return c.JSON(status)
    })

    r.Get("/support/tickets", guard, func(c *fiber.Ctx) error {
        page, err := api.Tickets(c.UserContext(), pageFrom(c))
        if err != nil {
            return err
        }
        return c.JSON(page)
    })
}

// RegisterAdminRoutes wires administrator views; guard must admit only admins.
func RegisterAdminRoutes(r fiber.Router, api *bankapi.Client, guard fiber.Handler) {
    admin := r.Group("/admin")
    admin.Get("/customers", guard, func(c *fiber.Ctx) error {
        page, err := api.AdminCustomers(c.UserContext(), pageFrom(c))
        if err != nil {
            return err
        }
        return c.JSON(page)
    })

    admin.Get("/kyc/pending", guard, func(c *fiber.Ctx) error {
        page, err := api.PendingKYC(c.UserContext(), pageFrom(c))
        if err != nil {
            return err
        }
        return c.JSON(page)
    })
}
