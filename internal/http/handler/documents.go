package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studyhub/internal/http/middleware"
	"studyhub/internal/service"
)

// Every documents handler runs behind middleware.Auth and acts on the caller's
// own documents only.

// ListDocuments godoc
//
// @Summary  List the caller's documents
// @Tags     documents
// @Produce  json
// @Security BearerAuth
// @Param    limit  query    int false "page size" default(10)
// @Param    offset query    int false "offset"    default(0)
// @Success  200    {object} service.DocumentListResult
// @Failure  400    {object} errorPayload
// @Router   /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), middleware.UserID(c), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
//
// @Summary  Upload a document (multipart field "file", optional "course_id")
// @Tags     documents
// @Accept   mpfd
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} model.Document
// @Failure  400 {object} errorPayload
// @Router   /documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		courseID := c.FormValue("course_id")
		if courseID != "" {
			if _, err := uuid.Parse(courseID); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_COURSE_ID", "invalid course_id format")
			}
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), service.UploadInput{
			UserID:      middleware.UserID(c),
			CourseID:    courseID,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Body:        f,
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
//
// @Summary  Get one of the caller's documents
// @Tags     documents
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "document id"
// @Success  200 {object} model.Document
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the stored content.
//
// @Summary  Download a document
// @Tags     documents
// @Produce  octet-stream
// @Security BearerAuth
// @Param    id path string true "document id"
// @Success  200
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/content [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, doc, err := docSvc.Open(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		defer rc.Close()

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Attachment(doc.Filename)
		if _, err := io.Copy(c.Response().BodyWriter(), rc); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return nil
	}
}

// DeleteDocument godoc
//
// @Summary  Delete a document
// @Tags     documents
// @Security BearerAuth
// @Param    id path string true "document id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
