package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotReflectsLayout(t *testing.T) {
	d := newTestDocument(&fixedMetrics{})
	d.SetColor(cyan).SetStyle(Bold).SetOutline(white, 1.5).Append("ab")
	d.SetOutline(white, 0).SetStyle(Regular).Append("c\nde")

	got := Snapshot(d)
	want := DocumentSnapshot{
		Font:          "mono",
		CharacterSize: 20,
		Width:         32,
		Height:        40,
		Lines: []LineSnapshot{
			{Y: 0, Width: 32, Height: 20, Runs: []RunSnapshot{
				{Text: "ab", Color: "#00ffffff", Style: "bold", X: 0, Width: 22, Height: 20,
					Outline: &OutlineSnapshot{Color: "#ffffffff", Thickness: 1.5}},
				{Text: "c", Color: "#00ffffff", Style: "regular", X: 22, Width: 10, Height: 20},
			}},
			{Y: 20, Width: 20, Height: 20, Runs: []RunSnapshot{
				{Text: "de", Color: "#00ffffff", Style: "regular", X: 0, Width: 20, Height: 20},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("快照不符 (-want +got):\n%s", diff)
	}
}

// TestWriteDebugByExtension 验证按扩展名输出 JSON 或 YAML。
func TestWriteDebugByExtension(t *testing.T) {
	d := newTestDocument(&fixedMetrics{}).Append("hello\nworld")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "layout.json")
	if err := WriteDebug(d, jsonPath); err != nil {
		t.Fatalf("WriteDebug json: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded DocumentSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("输出不是合法 JSON: %v", err)
	}
	if len(decoded.Lines) != 2 || decoded.Lines[1].Runs[0].Text != "world" {
		t.Fatalf("JSON 内容不符: %+v", decoded)
	}

	yamlPath := filepath.Join(dir, "layout.yaml")
	if err := WriteDebug(d, yamlPath); err != nil {
		t.Fatalf("WriteDebug yaml: %v", err)
	}
	data, err = os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if !strings.Contains(string(data), "text: world") {
		t.Fatalf("YAML 输出缺少文本: %s", data)
	}
}
