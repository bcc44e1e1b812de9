package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	entries, err := handler.entries.List(c.UserContext(), user.ID)
	if err != nil {
		log.Printf("entries: list for user %d failed: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	var input services.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := handler.entries.Log(c.UserContext(), user.ID, input)
	if err != nil {
		return entryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	var input services.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := handler.entries.Update(c.UserContext(), user.ID, entryID, input)
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	if err := handler.entries.Delete(c.UserContext(), user.ID, entryID); err != nil {
		return entryError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func entryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidEntryInput):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "entry not found")
	default:
		log.Printf("entries: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}
}
