package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"toolszone/internal/domain"
	"toolszone/internal/infra/chrome"
	"toolszone/internal/infra/logging"
	"toolszone/internal/resume"
)

const (
	outputHTML = "html"
	outputPDF  = "pdf"
)

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type generateRequest struct {
	ResumeData *resume.Data `json:"resumeData"`
	Template   string       `json:"template"`
	Output     string       `json:"output"`
}

// ResumeHandler serves the /api/tools/resume-maker routes.
type ResumeHandler struct {
	renderer PDFRenderer
	usage    UsageRecorder
}

// NewResumeHandler wires the PDF renderer and usage recorder. A nil renderer
// makes PDF output unavailable.
func NewResumeHandler(renderer PDFRenderer, usage UsageRecorder) *ResumeHandler {
	return &ResumeHandler{renderer: renderer, usage: usage}
}

func (h *ResumeHandler) Templates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": resume.Templates()})
}

// Generate renders the posted resume as HTML, or as PDF when output is "pdf".
func (h *ResumeHandler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if req.Output == "" {
		req.Output = outputHTML
	}
	if req.Output != outputHTML && req.Output != outputPDF {
		return domain.InvalidInput("Output must be html or pdf")
	}

	page, err := resume.RenderHTML(req.ResumeData, req.Template)
	if err != nil {
		return err
	}

	if req.Output == outputHTML {
		recordUsage(c, h.usage, domain.ToolResumeMaker, map[string]any{"template": req.Template, "output": outputHTML})
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	}

	if h.renderer == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "PDF output is not available")
	}
	pdf, err := h.renderer.RenderHTML(c.Context(), string(page))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logging.Error("Resume rendering timeout", "error", err)
			return fiber.NewError(fiber.StatusRequestTimeout, "Resume rendering took too long")
		}
		if chrome.IsSessionInterrupted(err) {
			logging.Error("Chrome session interrupted", "error", err)
			return fiber.NewError(fiber.StatusServiceUnavailable, "Chrome session interrupted")
		}
		return domain.Internal("Failed to generate resume", err)
	}

	recordUsage(c, h.usage, domain.ToolResumeMaker, map[string]any{"template": req.Template, "output": outputPDF})
	c.Set(fiber.HeaderContentType, domain.PDFMimeType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=resume.pdf")
	return c.Send(pdf)
}
