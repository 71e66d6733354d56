package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/newsletter/buildinfo"
	"github.com/ByLCY/newsletter/content"
)

const issue = `newsletter "Bästerås Weekly" {
  article "News1" { "Hello ${name}, the new coffee machine is here." }
  article "News2" { "Quarterly numbers look good." }
  office "Office News" { "Fika on Friday." }
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeIssue(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issue.nl")
	if err := os.WriteFile(path, []byte(issue), 0o644); err != nil {
		t.Fatalf("写入内容文件失败: %v", err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	src := writeIssue(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "issue.pdf")
	debug := filepath.Join(dir, "layout.json")

	if _, err := execute(t, "render", src, "-o", out, "--debug", debug, "--data", `{"name":"team"}`); err != nil {
		t.Fatalf("render 失败: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: err=%v", err)
	}
	layoutJSON, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("调试文件未写出: %v", err)
	}
	if !bytes.Contains(layoutJSON, []byte("team,")) || bytes.Contains(layoutJSON, []byte("${name}")) {
		t.Fatalf("--data 未插值到正文")
	}
}

func TestRenderCommandFPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "issue.pdf")
	if _, err := execute(t, "render", writeIssue(t), "-o", out, "--backend", "fpdf"); err != nil {
		t.Fatalf("render 失败: %v", err)
	}
	if data, _ := os.ReadFile(out); !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Fatalf("缺少参数应报错")
	}
	if _, err := execute(t, "render", writeIssue(t), "--data", "{oops"); err == nil {
		t.Fatalf("无效 JSON 应报错")
	}
	if _, err := execute(t, "render", writeIssue(t), "--backend", "fpdf", "--format", "png"); err == nil {
		t.Fatalf("fpdf 不支持 png，应报错")
	}
}

func TestTypesetTexOnly(t *testing.T) {
	stdout, err := execute(t, "typeset", writeIssue(t), "--tex-only")
	if err != nil {
		t.Fatalf("typeset 失败: %v", err)
	}
	if !strings.Contains(stdout, `\NewsletterTitle{Bästerås \textcolor{AccentOrange}{Weekly}}`) {
		t.Fatalf("LaTeX 源码不完整:\n%s", stdout)
	}
}

func TestConfigFlag(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nkind = \"memcached\"\n"), 0o644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	if _, err := execute(t, "--config", cfg, "typeset", writeIssue(t), "--tex-only"); err == nil {
		t.Fatalf("无效配置应报错")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version 失败: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Fatalf("版本输出错误: %q", out)
	}
}

func TestWarnUnresolved(t *testing.T) {
	var buf bytes.Buffer
	n := contentWithBody("Hello ${name} and ${team.lead}")
	warnUnresolved(log.New(&buf), n, map[string]any{"name": "x"})
	if !strings.Contains(buf.String(), "team.lead") {
		t.Fatalf("应提示未解析的 team.lead: %q", buf.String())
	}

	buf.Reset()
	warnUnresolved(log.New(&buf), contentWithBody("plain"), nil)
	if buf.Len() != 0 {
		t.Fatalf("无占位符时不应输出: %q", buf.String())
	}
}

func contentWithBody(body string) content.Newsletter {
	n := content.New()
	n.News1Content, n.News2Content, n.OfficeNewsContent = body, "b", "c"
	return n
}
