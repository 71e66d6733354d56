package binding

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("解析测试数据失败: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"title":"Bästerås Weekly","team":{"lead":"Anna","members":["Bo","Cia"]},"issue":1200000}`)
	cases := []struct {
		in, want string
	}{
		{"Thanks for reading ${title}.", "Thanks for reading Bästerås Weekly."},
		{"Hi ${ team.lead }", "Hi Anna"},
		{"${team.members[1]} joined", "Cia joined"},
		{"Issue ${issue}", "Issue 1200000"},
		{"${missing} stays", "${missing} stays"},
		{"${team.members[5]}", "${team.members[5]}"},
		{"${team.members[x]}", "${team.members[x]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${title}", nil); got != "${title}" {
		t.Fatalf("无数据时应保留占位符，实际 %q", got)
	}
}

func TestInterpolateStringMap(t *testing.T) {
	got := Interpolate("edition of ${title}", map[string]string{"title": "Weekly"})
	if got != "edition of Weekly" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestUnresolved(t *testing.T) {
	data := map[string]any{"title": "x"}
	got := Unresolved("${title} ${a.b} ${c} ${a.b}", data)
	if diff := cmp.Diff([]string{"a.b", "c"}, got); diff != "" {
		t.Fatalf("未解析占位符不符 (-want +got):\n%s", diff)
	}
}
