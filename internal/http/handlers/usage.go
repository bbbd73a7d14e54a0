package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"toolszone/internal/domain"
	"toolszone/internal/infra/logging"
)

const (
	defaultUsageLimit = 50
	maxUsageLimit     = 200
)

// UsageRecorder stores and lists tool usage records.
type UsageRecorder interface {
	RecordToolUsage(ctx context.Context, u domain.ToolUsage) error
	ToolUsage(ctx context.Context, userID int64, limit int) ([]domain.ToolUsage, error)
}

// recordUsage stores a usage record for the caller. Failures are logged and
// never fail the request.
func recordUsage(c *fiber.Ctx, usage UsageRecorder, tool string, params map[string]any) {
	userID := claimsUserID(c)
	if usage == nil || userID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	err := usage.RecordToolUsage(ctx, domain.ToolUsage{
		UserID:     userID,
		ToolName:   tool,
		UsedAt:     time.Now().UTC(),
		Parameters: params,
	})
	if err != nil {
		logging.Warn("Failed to record tool usage", "tool", tool, "user_id", userID, "error", err)
	}
}

// UsageHandler serves GET /api/tools/usage.
type UsageHandler struct {
	usage UsageRecorder
}

func NewUsageHandler(usage UsageRecorder) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// List returns the caller's most recent usage records, newest first.
// ?limit=N caps the result.
func (h *UsageHandler) List(c *fiber.Ctx) error {
	userID := claimsUserID(c)
	if userID == 0 {
		return domain.ErrMissingToken
	}

	limit := c.QueryInt("limit", defaultUsageLimit)
	if limit <= 0 || limit > maxUsageLimit {
		return domain.InvalidInput("limit must be between 1 and 200")
	}

	records, err := h.usage.ToolUsage(c.Context(), userID, limit)
	if err != nil {
		return domain.Internal("Failed to fetch tool usage", err)
	}
	if records == nil {
		records = []domain.ToolUsage{}
	}
	return c.JSON(fiber.Map{"usage": records})
}
