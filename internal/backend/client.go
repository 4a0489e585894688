// Package backend 封装对电商后端 REST API 的访问：请求限流、令牌注入、宽松的响应解析以及统一的错误分类。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource 返回当前会话的 bearer 令牌，空串表示匿名请求
type TokenSource func(ctx context.Context) string

// maxBodyBytes 响应体读取上限
const maxBodyBytes = 10 << 20

// Client 后端 HTTP 客户端
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	token   TokenSource
	log     *zap.Logger
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit 设置出站限流；rps <= 0 时不限流
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTokenSource 设置令牌来源
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger 设置日志
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		if lg != nil {
			c.log = lg
		}
	}
}

// New 创建客户端，baseURL 形如 http://localhost:5000
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 返回后端地址
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON 发起 GET 请求并把响应体原样解码到 out，非 2xx 视为失败
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get 发起 GET 请求并返回原始响应体
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// Send 发送 JSON 变更请求；payload 为 nil 时不带请求体
func (c *Client) Send(ctx context.Context, method, path string, payload any) (*Envelope, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}
	body, err := c.do(ctx, method, path, reader, contentType)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(body), nil
}

// SendMultipart 以 multipart/form-data 提交表单
func (c *Client) SendMultipart(ctx context.Context, method, path string, form *Form) (*Envelope, error) {
	reader, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, method, path, reader, contentType)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, networkError(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(err)
	}

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ParseAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), data)
	}
	return data, nil
}
