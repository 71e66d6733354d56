package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"

	"github.com/ByLCY/newsletter/cache"
)

// DefaultEndpoint 是 LaTeX.Online 的编译接口。
const DefaultEndpoint = "https://latexonline.cc/compile"

// ErrCompile 表示远程编译失败。
var ErrCompile = errors.New("LaTeX compilation failed")

// maxErrorBody 限制错误信息中引用的响应体长度。
const maxErrorBody = 4 << 10

// Client 调用远程 LaTeX 编译服务。零值可用。
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Cache      cache.Cache   // 为空时不缓存
	TTL        time.Duration // 缓存有效期，0 表示不过期
	Logger     *log.Logger
	Attempts   int           // 默认 3
	Delay      time.Duration // 首次重试前的等待，默认 1s
}

// Compile 以 multipart 表单上传 newsletter.tex 并返回编译得到的 PDF。
// 相同源码的结果按 SHA-256 缓存。
func (c *Client) Compile(ctx context.Context, source string) ([]byte, error) {
	logger := c.logger()
	key := "typeset:" + cache.Hash([]byte(source))
	if c.Cache != nil {
		data, hit, err := c.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("读取缓存失败", "err", err)
		} else if hit {
			logger.Debug("命中编译缓存", "key", key, "bytes", len(data))
			return data, nil
		}
	}

	body, contentType, err := multipartBody(source)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	attempt := 0
	err = retry(ctx, c.attempts(), c.delay(), func() error {
		attempt++
		logger.Debug("发送至 LaTeX 编译服务", "endpoint", c.endpoint(), "attempt", attempt)
		var err error
		pdf, err = c.post(ctx, body, contentType)
		if err != nil {
			logger.Warn("编译请求失败", "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("PDF 编译完成", "bytes", len(pdf))

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, pdf, c.TTL); err != nil {
			logger.Warn("写入缓存失败", "err", err)
		}
	}
	return pdf, nil
}

func (c *Client) post(ctx context.Context, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造编译请求失败: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, retryable(fmt.Errorf("请求编译服务失败: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryable(fmt.Errorf("读取编译结果失败: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data[:min(len(data), maxErrorBody)]))
		err := fmt.Errorf("%w: %d - %s", ErrCompile, resp.StatusCode, msg)
		if resp.StatusCode >= 500 {
			return nil, retryable(err)
		}
		return nil, err
	}
	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return nil, fmt.Errorf("%w: 响应不是 PDF (%s)", ErrCompile, mt.String())
	}
	return data, nil
}

func multipartBody(source string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "newsletter.tex")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, source); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (c *Client) attempts() int {
	if c.Attempts > 0 {
		return c.Attempts
	}
	return 3
}

func (c *Client) delay() time.Duration {
	if c.Delay > 0 {
		return c.Delay
	}
	return time.Second
}

func (c *Client) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
