// Package httpai talks to the remote image service over HTTP.
//
// Every operation is a multipart POST carrying the current image as the
// "image" file part plus the request parameters as form fields. The service
// answers with {"success": bool, "image_url": string, "error": string}; on
// success the image at image_url is downloaded and decoded.
package httpai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/user/picly/pkg/ports"
)

const maxResponseBytes = 1 << 20

// Options configures the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client implements ports.AIService.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	logger    ports.Logger
}

type response struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error"`
}

func New(opts Options, logger ports.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https: %q", opts.BaseURL)
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "picly"
	}
	return &Client{
		base:      base,
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: ua,
		logger:    logger.WithComponent("httpai"),
	}, nil
}

func (c *Client) Process(ctx context.Context, req ports.AIRequest) (ports.AIResult, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return ports.AIResult{}, err
	}

	endpoint := c.base.JoinPath(req.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return ports.AIResult{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	c.logger.Debug("POST %s operation=%s (%d bytes)", req.Endpoint, req.Operation, len(req.Image))
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ports.AIResult{}, fmt.Errorf("post %s: %w", req.Endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.AIResult{}, fmt.Errorf("read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return ports.AIResult{}, &ports.RemoteError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return ports.AIResult{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "operation failed"
		}
		status := 0
		if resp.StatusCode >= 400 {
			status = resp.StatusCode
		}
		return ports.AIResult{}, &ports.RemoteError{Status: status, Message: msg}
	}
	if parsed.ImageURL == "" {
		return ports.AIResult{}, &ports.RemoteError{Message: "response has no image_url"}
	}

	img, err := c.fetchImage(ctx, parsed.ImageURL)
	if err != nil {
		return ports.AIResult{}, err
	}
	return ports.AIResult{Image: img, ImageURL: parsed.ImageURL}, nil
}

func (c *Client) fetchImage(ctx context.Context, ref string) (image.Image, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse image_url: %w", err)
	}
	target := c.base.ResolveReference(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch result image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ports.RemoteError{Status: resp.StatusCode, Message: "result image unavailable"}
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode result image: %w", err)
	}
	c.logger.Debug("Fetched result %s (%s, %dx%d)", target.Path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// encodeForm builds the multipart body. Parameters are written in key
// order so requests are reproducible.
func encodeForm(req ports.AIRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="image.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}

	keys := make([]string, 0, len(req.Params))
	for k := range req.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, req.Params[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var _ ports.AIService = (*Client)(nil)
