package typeset

import (
	"strings"
	"testing"

	"github.com/ByLCY/newsletter/content"
)

func sampleDocument() Document {
	return Document{
		Title:      "Bästerås Weekly",
		News1:      Section{Title: "News1", Content: "Profit up 50% & costs down"},
		News2:      Section{Title: "R_D", Content: "Budget: $100 {approx}"},
		OfficeNews: Section{Title: "Office News", Content: `C:\temp ~ ^`},
	}
}

func TestEscape(t *testing.T) {
	got := Escape(`50% & $x_1 #{a} \ ~^`)
	want := `50\% \& \$x\_1 \#\{a\} \textbackslash{} \textasciitilde{}\textasciicircum{}`
	if got != want {
		t.Fatalf("Escape 结果错误:\n got=%s\nwant=%s", got, want)
	}
}

func TestSource(t *testing.T) {
	src, err := Source(sampleDocument())
	if err != nil {
		t.Fatalf("Source 失败: %v", err)
	}
	for _, want := range []string{
		`\NewsletterTitle{Bästerås \textcolor{AccentOrange}{Weekly}}`,
		`\NewsletterHeader{R\_D}`,
		`Profit up 50\% \& costs down`,
		`Budget: \$100 \{approx\}`,
		`C:\textbackslash{}temp`,
		`\definecolor{AccentOrange}{RGB}{255,166,0}`,
		`\definecolor{PageBackground}{RGB}{249,247,243}`,
		"Thanks for reading this week's edition of Bästerås Weekly.",
		`\begin{multicols}{2}`,
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("LaTeX 源码缺少 %q", want)
		}
	}
	if n := strings.Count(src, `\NewsletterHeader{`); n != 3 {
		t.Fatalf("期望 3 个段落标题，实际 %d", n)
	}
}

func TestAccentTitleAnyLastWord(t *testing.T) {
	if got := accentTitle("Monthly Digest"); got != `Monthly \textcolor{AccentOrange}{Digest}` {
		t.Fatalf("末词应着强调色: %s", got)
	}
	if got := accentTitle("Trailing "); got != "Trailing " {
		t.Fatalf("末尾为空时不应生成空着色命令: %q", got)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	n := content.New()
	n.News1Content, n.News2Content, n.OfficeNewsContent = "a", "b", "c"
	doc := FromNewsletter(n)
	if doc.News2.Content != "b" || doc.OfficeNews.Title != "Office News" {
		t.Fatalf("FromNewsletter 映射错误: %+v", doc)
	}
	if back := doc.Newsletter(); back.OfficeNewsContent != "c" || back.Title != n.Title {
		t.Fatalf("Newsletter 映射错误: %+v", back)
	}
}
