package helper

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/reporter"
	"sekolahku_backend/internals/helpers/storage"
)

// StatusOf memetakan jenis error domain ke status HTTP.
func StatusOf(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, repository.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, storage.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrForeignURL):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrStorage):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError menulis response error JSON yang konsisten.
// 5xx dilaporkan ke reporter dengan pesan generik ke client.
func FromError(c *fiber.Ctx, err error) error {
	var verr *repository.ValidationError
	if errors.As(err, &verr) {
		return JsonValidationError(c, verr.Fields)
	}

	status := StatusOf(err)
	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}

	switch status {
	case fiber.StatusServiceUnavailable:
		report(c, err)
		msg = "layanan sedang bermasalah, coba lagi nanti"
	case fiber.StatusInternalServerError:
		report(c, err)
		msg = "terjadi kesalahan pada server"
	case fiber.StatusBadGateway:
		report(c, err)
	}
	return JsonError(c, status, msg)
}

func report(c *fiber.Ctx, err error) {
	reporter.Error(err, map[string]interface{}{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": requestID(c),
	})
}

// ErrorHandler dipasang di fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}

// ParseBody membaca body JSON object menjadi Document.
func ParseBody(c *fiber.Ctx) (repository.Document, error) {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "body kosong")
	}
	var doc repository.Document
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "body harus JSON object")
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "body harus JSON object")
	}
	return doc, nil
}

// ParseIfMatch membaca header If-Match berisi version ("3" atau "\"3\"").
// Header kosong -> nil (last-write-wins).
func ParseIfMatch(c *fiber.Ctx) (*int64, error) {
	raw := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "If-Match harus berisi version angka")
	}
	return &v, nil
}

// SetETag menulis version record ke header ETag.
func SetETag(c *fiber.Ctx, version int64) {
	c.Set(fiber.HeaderETag, `"`+strconv.FormatInt(version, 10)+`"`)
}
