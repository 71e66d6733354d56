package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// debugDump 是调试 JSON 的顶层结构：排版结果加上按类型统计的指令数。
type debugDump struct {
	*Result
	Counts map[Kind]int `json:"counts"`
	Images []debugImage `json:"images,omitempty"`
}

// debugImage 记录图片指令引用的字节数，图片本身不写入 JSON。
type debugImage struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

// EncodeDebugJSON 将绘制指令序列编码为缩进 JSON 写入 w。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("排版结果为空")
	}
	dump := debugDump{Result: res, Counts: map[Kind]int{}}
	for _, ins := range res.Instructions {
		dump.Counts[ins.Kind]++
		if ins.Kind == KindImage && ins.Image != nil {
			dump.Images = append(dump.Images, debugImage{Name: ins.Image.Name, Bytes: len(ins.Image.Data)})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// WriteDebugJSON 将调试 JSON 写入 path，必要时创建目录。
func WriteDebugJSON(res *Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
