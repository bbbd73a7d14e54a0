package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"toolszone/internal/auth"
	"toolszone/internal/domain"
)

var testTokens = auth.NewTokenManager("handler-secret", "toolszone", time.Hour)

// testApp renders domain errors with the same status mapping as the server.
func testApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var de *domain.Error
			var fe *fiber.Error
			switch {
			case errors.As(err, &de):
				switch de.Kind {
				case domain.KindInvalidInput:
					code = fiber.StatusBadRequest
				case domain.KindUnauthorized:
					code = fiber.StatusUnauthorized
				case domain.KindNotFound:
					code = fiber.StatusNotFound
				case domain.KindConflict:
					code = fiber.StatusConflict
				}
				return c.Status(code).JSON(fiber.Map{"message": de.Message, "kind": de.Kind})
			case errors.As(err, &fe):
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})
}

func bearerFor(t *testing.T, id int64) string {
	t.Helper()
	token, err := testTokens.Issue(domain.User{ID: id, Email: fmt.Sprintf("u%d@example.com", id), Role: domain.RoleUser})
	require.NoError(t, err)
	return "Bearer " + token
}

type upload struct {
	name string
	mime string
	data []byte
}

func pdfUpload(name string, b []byte) upload {
	return upload{name: name, mime: domain.PDFMimeType, data: b}
}

// multipartBody writes each upload as a "files" part with its own
// Content-Type header.
func multipartBody(t *testing.T, uploads ...upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, u.name))
		h.Set("Content-Type", u.mime)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
