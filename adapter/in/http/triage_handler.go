package http

import (
	"io"
	"path/filepath"
	"strings"

	"mailtriage/core/port/in"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes bounds the size of an uploaded text file.
const maxUploadBytes = 1 << 20

// TriageHandler handles HTTP requests for email triage
type TriageHandler struct {
	service in.TriageService
}

// NewTriageHandler creates a new TriageHandler
func NewTriageHandler(service in.TriageService) *TriageHandler {
	return &TriageHandler{service: service}
}

// Register registers triage routes
func (h *TriageHandler) Register(router fiber.Router) {
	router.Post("/process", h.Process)
	router.Get("/history", h.History)
}

// Process accepts a JSON body or a multipart form. In multipart requests an
// uploaded .txt file replaces the text field, matching form-based clients.
func (h *TriageHandler) Process(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if req == nil {
		// parseRequest has already written the rejection response.
		return err
	}

	resp, err := h.service.Process(c.Context(), req)
	if err != nil {
		return InternalErrorResponse(c, err, "process submission")
	}

	return c.JSON(resp)
}

// History returns recently processed submissions.
func (h *TriageHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	records, err := h.service.History(c.Context(), limit)
	if err != nil {
		return InternalErrorResponse(c, err, "list history")
	}

	return SuccessResponse(c, fiber.Map{
		"records": records,
		"total":   len(records),
	})
}

func (h *TriageHandler) parseRequest(c *fiber.Ctx) (*in.ProcessRequest, error) {
	contentType := string(c.Request().Header.ContentType())

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return h.parseMultipart(c)
	}

	var req in.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, ErrorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	return &req, nil
}

func (h *TriageHandler) parseMultipart(c *fiber.Ctx) (*in.ProcessRequest, error) {
	req := &in.ProcessRequest{
		Text:    c.FormValue("text"),
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
	}

	header, err := c.FormFile("file")
	if err != nil || header == nil || header.Filename == "" {
		return req, nil
	}

	if strings.ToLower(filepath.Ext(header.Filename)) != ".txt" {
		return nil, ErrorResponse(c, fiber.StatusUnsupportedMediaType, "only .txt files are supported")
	}
	if header.Size > maxUploadBytes {
		return nil, ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "file exceeds 1MB limit")
	}

	f, err := header.Open()
	if err != nil {
		return nil, InternalErrorResponse(c, err, "open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, InternalErrorResponse(c, err, "read uploaded file")
	}

	req.Text = string(data)
	return req, nil
}
