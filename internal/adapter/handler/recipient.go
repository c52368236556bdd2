package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

type RecipientHandler struct {
	Dir *storage.Directory
}

func (h *RecipientHandler) ListSaved(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}
	return c.JSON(fiber.Map{"recipients": h.Dir.SavedForUser(userID)})
}

type resolveBankRequest struct {
	AccountNo string `json:"account_no"`
	BankCode  string `json:"bank_code"`
}

func (h *RecipientHandler) ResolveBank(c *fiber.Ctx) error {
	var req resolveBankRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}

	res, err := h.Dir.ResolveBankAccount(req.AccountNo, req.BankCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

type resolveMobileRequest struct {
	MobileNumber string `json:"mobile_number"`
}

func (h *RecipientHandler) ResolveMobile(c *fiber.Ctx) error {
	var req resolveMobileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}

	res, err := h.Dir.ResolveMobile(req.MobileNumber)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
