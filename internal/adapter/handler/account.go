package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/security"
)

type AccountHandler struct {
	Ledger *storage.Ledger
	Keys   *storage.KeyStore
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrAccountNotFound)
	}

	acc, err := h.Ledger.Account(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(acc)
}

func (h *AccountHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}
	return c.JSON(fiber.Map{"accounts": h.Ledger.AccountsForUser(userID)})
}

// GenerateKey issues an API key bound to the account. The raw key is
// returned exactly once; only its hash is kept.
func (h *AccountHandler) GenerateKey(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, domain.ErrAccountNotFound)
	}
	if _, err := h.Ledger.Account(accountID); err != nil {
		return respondError(c, err)
	}

	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("crypto error generating key", "error", err)
		return respondError(c, err)
	}
	h.Keys.Save(keyHash, accountID)

	slog.Info("api key generated", "account_id", accountID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"api_key": realKey,
		"warning": "save this now, it will not be shown again",
	})
}
