package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpand(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{"name": "Ada", "score": 99.5, "level": float64(3)},
		"tags": []any{"a", map[string]any{"label": "second"}},
		"env":  map[string]string{"lang": "zh"},
	}
	tests := []struct {
		in, want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${ user.score } / ${user.level}", "99.5 / 3"},
		{"${tags[1].label}", "second"},
		{"${env.lang}", "zh"},
		{"${user.missing|anon}", "anon"},
		{"${user.name|anon}", "Ada"},
		{"${user.missing}", "${user.missing}"},
		{"${tags[9]}", "${tags[9]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		if got, _ := Expand(tt.in, data); got != tt.want {
			t.Fatalf("Expand(%q) = %q，期望 %q", tt.in, got, tt.want)
		}
	}
}

// TestExpandReportsMissing 验证未解析的路径会被返回，带默认值的不算缺失。
func TestExpandReportsMissing(t *testing.T) {
	out, missing := Expand("${a} ${b|x} ${c.d}", map[string]any{"a": 1})
	if out != "1 x ${c.d}" {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"c.d"}, missing); diff != "" {
		t.Fatalf("missing paths (-want +got):\n%s", diff)
	}
}

func TestExpandNilData(t *testing.T) {
	if got, _ := Expand("${a|fallback} ${b}", nil); got != "fallback ${b}" {
		t.Fatalf("nil data should only apply defaults, got %q", got)
	}
}

func TestLookupRejectsMalformedIndex(t *testing.T) {
	data := map[string]any{"xs": []any{1, 2}}
	for _, path := range []string{"xs[", "xs[a]", "xs[0]x", "."} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) should fail", path)
		}
	}
	if v, ok := Lookup(data, "xs[1]"); !ok || v != 2 {
		t.Fatalf("Lookup(xs[1]) = %v, %v", v, ok)
	}
}
