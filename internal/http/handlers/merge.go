package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"toolszone/internal/domain"
	"toolszone/internal/http/middleware"
	"toolszone/internal/infra/logging"
	"toolszone/internal/pdfmerge"
)

const (
	filesField     = "files"
	mergedFilename = "merged.pdf"
)

// Merger runs the validate and merge pipeline.
type Merger interface {
	Merge(files domain.MergeRequest) (*pdfmerge.Result, error)
}

// MergeCache holds optional settings for caching merged output in Redis.
// A nil Redis client disables caching.
type MergeCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

// MergeHandler serves POST /api/tools/pdf-merger/merge.
type MergeHandler struct {
	merger Merger
	usage  UsageRecorder
	cache  MergeCache
}

// NewMergeHandler wires the merge pipeline, the usage recorder and the cache.
func NewMergeHandler(merger Merger, usage UsageRecorder, cache MergeCache) *MergeHandler {
	return &MergeHandler{merger: merger, usage: usage, cache: cache}
}

// Handle reads the uploaded files, merges them in upload order and sends
// the result as a PDF attachment.
func (h *MergeHandler) Handle(c *fiber.Ctx) error {
	files, err := readUploads(c)
	if err != nil {
		return err
	}

	var cacheKey string
	if h.cache.Redis != nil && pdfmerge.Validate(files) == nil {
		cacheKey = mergeCacheKey(files)
		if cached := h.getCached(c, cacheKey); cached != nil {
			recordUsage(c, h.usage, domain.ToolPDFMerger, map[string]any{
				"fileCount": len(files),
				"fileNames": files.Names(),
				"cached":    true,
			})
			return sendPDF(c, cached)
		}
	}

	res, err := h.merger.Merge(files)
	if err != nil {
		return err
	}

	if cacheKey != "" {
		h.setCached(c, cacheKey, res.PDF)
	}

	requestID := c.GetRespHeader(fiber.HeaderXRequestID)
	logging.Info("PDF merged",
		"files", res.FileCount,
		"in_bytes", res.InBytes,
		"out_bytes", len(res.PDF),
		"request_id", requestID,
	)

	recordUsage(c, h.usage, domain.ToolPDFMerger, map[string]any{
		"fileCount": res.FileCount,
		"fileNames": files.Names(),
	})

	return sendPDF(c, res.PDF)
}

func sendPDF(c *fiber.Ctx, pdf []byte) error {
	c.Set(fiber.HeaderContentType, domain.PDFMimeType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+mergedFilename)
	return c.Send(pdf)
}

// readUploads returns the parts under the "files" field in upload order.
// A request that is not multipart is treated as having no files.
func readUploads(c *fiber.Ctx) (domain.MergeRequest, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInvalidInput, Message: "Malformed multipart request", Err: err}
	}

	headers := form.File[filesField]
	files := make(domain.MergeRequest, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, domain.Internal("Failed to read uploaded file", err)
		}
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, domain.Internal("Failed to read uploaded file", err)
		}
		files = append(files, domain.UploadedFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get(fiber.HeaderContentType),
			Bytes:    b,
			Size:     fh.Size,
		})
	}
	return files, nil
}

// mergeCacheKey hashes every file's bytes in order, so reordering the
// same inputs gives a different key.
func mergeCacheKey(files domain.MergeRequest) string {
	h := sha256.New()
	var n [8]byte
	for _, f := range files {
		binary.BigEndian.PutUint64(n[:], uint64(len(f.Bytes)))
		h.Write(n[:])
		h.Write(f.Bytes)
	}
	return "mergecache:" + hex.EncodeToString(h.Sum(nil))
}

func (h *MergeHandler) getCached(c *fiber.Ctx, key string) []byte {
	ctx, cancel := context.WithTimeout(c.Context(), time.Second)
	defer cancel()

	cached, err := h.cache.Redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logging.Warn("Redis read failed", "error", err)
		return nil
	}
	logging.Info("Merge cache hit", "key", key)
	return cached
}

func (h *MergeHandler) setCached(c *fiber.Ctx, key string, data []byte) {
	ctx, cancel := context.WithTimeout(c.Context(), time.Second)
	defer cancel()

	ttl := h.cache.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := h.cache.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
		logging.Warn("Redis write failed", "error", err)
	}
}

// claimsUserID returns the caller's id, or 0 on unauthenticated routes.
func claimsUserID(c *fiber.Ctx) int64 {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		return claims.UserID
	}
	return 0
}
