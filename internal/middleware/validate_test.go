package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidateApp(schema *validation.Schema, reached *bool) *fiber.App {
	app := fiber.New()
	app.Post("/", Validate(schema), func(c *fiber.Ctx) error {
		*reached = true
		return c.JSON(BodyFrom(c))
	})
	return app
}

func TestValidate_JSON(t *testing.T) {
	var reached bool
	app := newValidateApp(validation.Comment, &reached)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"body":"  <b>hi</b>  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, reached)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "&lt;b&gt;hi&lt;&#x2F;b&gt;", body["body"])
}

func TestValidate_RejectsAndAccumulates(t *testing.T) {
	var reached bool
	app := newValidateApp(validation.Register, &reached)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"","password":"short","confirmPassword":"other"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, reached, "handler must not run when validation fails")

	var body struct {
		Errors []struct {
			Type     string `json:"type"`
			Path     string `json:"path"`
			Msg      string `json:"msg"`
			Location string `json:"location"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	paths := map[string]bool{}
	for _, e := range body.Errors {
		assert.Equal(t, "field", e.Type)
		assert.Equal(t, "body", e.Location)
		paths[e.Path] = true
	}
	assert.True(t, paths["username"])
	assert.True(t, paths["password"])
	assert.True(t, paths["confirmPassword"])
}

func TestValidate_MalformedJSON(t *testing.T) {
	var reached bool
	app := newValidateApp(validation.Comment, &reached)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"body":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, reached)
}

func TestValidate_Multipart(t *testing.T) {
	var reached bool
	app := newValidateApp(validation.CreatePost, &reached)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("title", "Hello"))
	require.NoError(t, w.WriteField("body", "World"))
	require.NoError(t, w.WriteField("isPublished", "true"))
	require.NoError(t, w.WriteField("publishDate", "2024/01/02"))
	require.NoError(t, w.WriteField("categories", "[1,2]"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.True(t, reached)
}

func TestValidate_URLEncoded(t *testing.T) {
	var reached bool
	app := newValidateApp(validation.Category, &reached)

	form := url.Values{"name": {"  News "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "News", body["name"])
}
