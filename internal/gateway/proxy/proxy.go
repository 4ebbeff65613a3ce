package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"
	"wedding-layout/internal/common/logger"
)

// ============================================================
// Proxy Handler
// ============================================================

// Proxy forwards gateway requests to the layout service.
type Proxy struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func New(baseURL string, timeout time.Duration, log *logger.Logger) *Proxy {
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger.OrNop(log).Component("proxy"),
	}
}

// Strip returns a handler that drops prefix from the request path and forwards the
// rest, query string included, to the upstream.
func (p *Proxy) Strip(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		target := p.baseURL + path
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return p.Forward(c, target)
	}
}

// Forward proxies any method to targetURL, rebuilding multipart bodies.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	p.log.Debug("forwarding",
		"method", c.Method(),
		"path", c.Path(),
		"contentType", c.Get("Content-Type"),
		"contentLength", len(c.Body()),
		"target", targetURL,
	)

	contentType := c.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return p.sendRaw(c, targetURL, contentType)
	}
	return p.sendMultipart(c, targetURL)
}

// Ping reports whether the upstream answers its liveness probe.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health/live", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return nil
}

func (p *Proxy) sendRaw(c fiber.Ctx, targetURL, contentType string) error {
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		return apierr.Internal(fmt.Errorf("build request: %w", err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return p.do(c, req)
}

func (p *Proxy) sendMultipart(c fiber.Ctx, targetURL string) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apierr.BadRequest("invalid_multipart", errors.New("invalid multipart data"))
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				p.log.Warn("skip multipart file", "file", fileHeader.Filename, "error", err)
				continue
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
			h.Set("Content-Type", fileHeader.Header.Get("Content-Type"))

			part, err := writer.CreatePart(h)
			if err != nil {
				file.Close()
				return apierr.Internal(fmt.Errorf("create part: %w", err))
			}
			_, err = io.Copy(part, file)
			file.Close()
			if err != nil {
				return apierr.Internal(fmt.Errorf("copy part: %w", err))
			}
		}
	}
	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return apierr.Internal(err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		return apierr.Internal(err)
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		return apierr.Internal(fmt.Errorf("build multipart request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return p.do(c, req)
}

func (p *Proxy) do(c fiber.Ctx, req *http.Request) error {
	if auth := c.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("upstream unreachable", "target", req.URL.String(), "error", err)
		return apierr.Upstream("upstream_unreachable", errors.New("failed to reach upstream service"))
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Upstream("invalid_upstream_response", err)
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
