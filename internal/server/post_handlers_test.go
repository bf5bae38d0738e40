package server

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormImage(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Hello"))
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantFile    string
	}{
		{"json body has no image", fiber.MIMEApplicationJSON, `{"title":"Hello"}`, fiber.StatusOK, ""},
		{"multipart with image", mw.FormDataContentType(), buf.String(), fiber.StatusOK, "cover.png"},
		{"multipart without boundary", fiber.MIMEMultipartForm, "title=Hello", fiber.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/", func(c *fiber.Ctx) error {
				img, err := formImage(c)
				if err != nil {
					return c.Status(statusFor(err)).SendString(err.Error())
				}
				if img == nil {
					return c.SendString("")
				}
				return c.SendString(img.Filename)
			})

			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, tt.contentType)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == fiber.StatusOK {
				var got bytes.Buffer
				_, err = got.ReadFrom(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantFile, got.String())
			}
		})
	}
}

func TestFormImage_ErrorIsValidation(t *testing.T) {
	app := fiber.New()
	var got error
	app.Post("/", func(c *fiber.Ctx) error {
		_, got = formImage(c)
		return nil
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader("broken"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEMultipartForm)
	_, err := app.Test(req)
	require.NoError(t, err)

	require.Error(t, got)
	assert.True(t, models.HasCode(got, models.CodeValidation))
}
