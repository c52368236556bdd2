package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

// DraftHandler exposes the client's in-flight transfer draft, keyed by
// session id. The engine never reads drafts; this is client state.
type DraftHandler struct {
	Store *storage.DraftStore
}

func (h *DraftHandler) Get(c *fiber.Ctx) error {
	d, err := h.Store.Get(c.Params("session"))
	if errors.Is(err, storage.ErrDraftNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"code":    "DRAFT_NOT_FOUND",
			"message": "no draft for this session",
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (h *DraftHandler) Put(c *fiber.Ctx) error {
	var d storage.Draft
	if err := c.BodyParser(&d); err != nil {
		return respondError(c, domain.ErrInvalidRequest)
	}
	if err := h.Store.Put(c.Params("session"), d); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": true})
}

func (h *DraftHandler) Clear(c *fiber.Ctx) error {
	if err := h.Store.Clear(c.Params("session")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"cleared": true})
}
