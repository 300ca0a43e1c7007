package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosim-wonderland/wonderland-server/ai"
	"github.com/gosim-wonderland/wonderland-server/models"
	"github.com/gosim-wonderland/wonderland-server/store"
)

// processTimeout bounds a fire-and-forget stylization after the upload
// response has already gone out.
const processTimeout = 3 * time.Minute

// UploadPhoto receives a multipart submission, persists the original and
// creates the pending photo row. Depending on the useAI flag the AI
// gateway runs synchronously, in the background, or not at all.
func (h *Handler) UploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "no photo file provided")
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return fail(c, fiber.StatusBadRequest, "please upload an image file")
	}

	if file.Size > h.cfg.MaxUploadBytes() {
		return fail(c, fiber.StatusBadRequest, "image too large")
	}

	userSession := c.FormValue("userSession")
	caption := c.FormValue("caption")
	useAI := c.FormValue("useAI", "true") != "false"
	if _, off := h.gateway.(ai.Disabled); off {
		useAI = false
	}

	blob, err := file.Open()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error opening the file")
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error reading the file")
	}
	data = downscale(data)

	originalURL, err := h.media.Save(c.Context(), bytes.NewReader(data), file.Filename)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error storing the file")
	}

	photo, err := h.photos.Create(c.Context(), originalURL, userSession, caption)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error saving photo record")
	}

	switch {
	case !useAI:
		// Skip AI: complete right away with no cartoon, the display
		// falls back to the original.
		if _, err := h.photos.MarkCompleted(c.Context(), photo.ID, "", ""); err != nil {
			return fail(c, fiber.StatusInternalServerError, "error updating photo record")
		}
	case h.cfg.AISync:
		h.stylize(c.Context(), photo.ID, photo.OriginalURL, photo.Caption)
	default:
		go func(id, originalURL, caption string) {
			ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
			defer cancel()
			h.stylize(ctx, id, originalURL, caption)
		}(photo.ID, photo.OriginalURL, photo.Caption)
	}

	// Re-read so synchronous paths answer with the post-transition row.
	if current, err := h.photos.Get(c.Context(), photo.ID); err == nil {
		photo = current
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"photo_id": photo.ID,
		"photo":    photo,
	})
}

// stylize runs one gateway attempt and feeds the outcome back into the
// lifecycle service. Gateway failures become markFailed, never a crash.
func (h *Handler) stylize(ctx context.Context, id, originalURL, caption string) {
	res := h.gateway.Stylize(ctx, originalURL, caption)
	if res.OK {
		if _, err := h.photos.MarkCompleted(ctx, id, res.CartoonURL, res.Description); err != nil {
			log.Printf("mark completed %s: %v", id, err)
		}
		return
	}
	if _, err := h.photos.MarkFailed(ctx, id, res.Reason); err != nil {
		log.Printf("mark failed %s: %v", id, err)
	}
}

// GetPhoto returns one photo row; the capture client polls it while the
// AI result is pending.
func (h *Handler) GetPhoto(c *fiber.Ctx) error {
	photo, err := h.photos.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "photo not found")
		}
		return fail(c, fiber.StatusInternalServerError, "error loading photo")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"photo":   photo,
	})
}

type listPhotosQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending completed failed approved rejected"`
	Limit  int    `query:"limit" validate:"gte=0,lte=200"`
}

// ListPhotos returns an ordered slice for one status plus the per-status
// totals the admin and display clients poll.
func (h *Handler) ListPhotos(c *fiber.Ctx) error {
	q := listPhotosQuery{Status: "pending", Limit: 50}
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validate.Struct(q); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	photos, err := h.photos.ListByStatus(c.Context(), models.Status(q.Status), q.Limit)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error loading photos")
	}

	stats, err := h.photos.Counts(c.Context())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "error loading stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"photos":  photos,
		"stats":   stats,
	})
}
