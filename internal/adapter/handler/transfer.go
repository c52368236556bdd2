package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/security"
)

type TransferHandler struct {
	Engine  *engine.Engine
	History storage.HistoryStore
}

// createTransferRequest accepts the amount either as integer minor units
// or as the raw decimal string the form collects.
type createTransferRequest struct {
	AccountID    string `json:"account_id"`
	Channel      string `json:"channel"`
	RecipientID  string `json:"recipient_id"`
	AccountNo    string `json:"account_no"`
	BankCode     string `json:"bank_code"`
	MobileNumber string `json:"mobile_number"`
	Provider     string `json:"provider"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	Note         string `json:"note"`
}

func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req createTransferRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("invalid transfer body", "error", err)
		return respondError(c, domain.ErrInvalidRequest)
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}

	amountCents := req.AmountCents
	if amountCents == 0 && req.Amount != "" {
		amountCents, err = domain.ParseAmount(req.Amount)
		if err != nil {
			return respondError(c, err)
		}
	}

	transferReq := domain.TransferRequest{
		AccountID:    accountID,
		Channel:      domain.Channel(req.Channel),
		AccountNo:    req.AccountNo,
		BankCode:     req.BankCode,
		MobileNumber: req.MobileNumber,
		Provider:     req.Provider,
		AmountCents:  amountCents,
		Note:         req.Note,
	}
	if req.RecipientID != "" {
		recipientID, err := uuid.Parse(req.RecipientID)
		if err != nil {
			return respondError(c, domain.ErrInvalidRecipient)
		}
		transferReq.RecipientID = recipientID
	}

	t, err := h.Engine.Create(c.Context(), transferReq)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":             t.ID,
		"status":         t.Status,
		"reference_code": t.ReferenceCode,
	})
}

func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrTransferNotFound)
	}

	// The auth middleware has already vetted the caller's key; pass that
	// decision through to the engine's authentication gate.
	ctx := security.WithAuthorization(c.Context(), c.Locals("account_id") != nil)

	t, err := h.Engine.Confirm(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *TransferHandler) Status(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrTransferNotFound)
	}

	status, failReason, err := h.Engine.PollStatus(id)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"status": status}
	if failReason != "" {
		resp["fail_reason"] = failReason
	}
	return c.JSON(resp)
}

func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrTransferNotFound)
	}

	if err := h.Engine.Cancel(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"cancelled": true})
}

func (h *TransferHandler) List(c *fiber.Ctx) error {
	userID := uuid.Nil
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, domain.ErrInvalidRequest)
		}
		userID = parsed
	}

	page := c.QueryInt("page", 0)
	limit := c.QueryInt("limit", 10)
	if page < 0 || limit <= 0 || limit > 100 {
		return respondError(c, domain.ErrInvalidRequest)
	}

	entries, hasMore := h.History.List(userID, page, limit)
	return c.JSON(fiber.Map{
		"entries":  entries,
		"has_more": hasMore,
	})
}
