package typeset

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/newsletter/cache"
)

const fakePDF = "%PDF-1.4\n%fake\n"

func newClient(url string, c cache.Cache) *Client {
	return &Client{
		Endpoint: url,
		Cache:    c,
		Logger:   log.New(io.Discard),
		Delay:    time.Millisecond,
	}
}

func TestCompileUploadsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("期望 POST，实际 %s", r.Method)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("缺少 file 字段: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "newsletter.tex" || string(body) != `\documentclass{article}` {
			t.Errorf("上传内容错误: %s %q", header.Filename, body)
		}
		_, _ = io.WriteString(w, fakePDF)
	}))
	defer srv.Close()

	pdf, err := newClient(srv.URL, nil).Compile(context.Background(), `\documentclass{article}`)
	if err != nil {
		t.Fatalf("Compile 失败: %v", err)
	}
	if string(pdf) != fakePDF {
		t.Fatalf("返回内容错误: %q", pdf)
	}
}

func TestCompileRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, fakePDF)
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL, nil).Compile(context.Background(), "x"); err != nil {
		t.Fatalf("第三次应成功: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("期望 3 次请求，实际 %d", calls.Load())
	}
}

func TestCompileClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "! Undefined control sequence.", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, nil).Compile(context.Background(), "x")
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("期望 ErrCompile，实际 %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx 不应重试，实际请求 %d 次", calls.Load())
	}
}

func TestCompileRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL, nil).Compile(context.Background(), "x"); !errors.Is(err, ErrCompile) {
		t.Fatalf("非 PDF 响应应返回 ErrCompile，实际 %v", err)
	}
}

func TestCompileUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, fakePDF)
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := newClient(srv.URL, fc)
	for i := 0; i < 2; i++ {
		if _, err := c.Compile(context.Background(), "same source"); err != nil {
			t.Fatalf("Compile 失败: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("相同源码应命中缓存，实际请求 %d 次", calls.Load())
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, 3, time.Hour, func() error { return retryable(errors.New("boom")) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("取消后应返回 context.Canceled，实际 %v", err)
	}
}
