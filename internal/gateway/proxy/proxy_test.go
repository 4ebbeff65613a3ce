package proxy

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/common/middleware"
)

func gateway(p *Proxy) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	app.All("/api/v1/projects/*", p.Strip("/api/v1"))
	return app
}

func TestStripForwardsPathQueryAndBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p1/tables", r.URL.Path)
		assert.Equal(t, "dry=1", r.URL.RawQuery)
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"seats":4}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "layout")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"tableId":"t1"}`))
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/p1/tables?dry=1", bytes.NewReader([]byte(`{"seats":4}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer t")

	resp, err := gateway(New(upstream.URL+"/", time.Second, nil)).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "layout", resp.Header.Get("X-Upstream"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"tableId":"t1"}`, string(body))
}

func TestMultipartIsRebuilt(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "hall.svg", header.Filename)
		assert.Equal(t, "<svg/>", string(data))
		assert.Equal(t, "yes", r.FormValue("replace"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "hall.svg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("<svg/>"))
	require.NoError(t, mw.WriteField("replace", "yes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/p1/walls/svg", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := gateway(New(upstream.URL, time.Second, nil)).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUnreachableUpstreamIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	p := New(url, time.Second, nil)
	resp, err := gateway(p).Test(httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1/canvas", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Error(t, p.Ping(context.Background()))
}
