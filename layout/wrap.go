package layout

import "strings"

// Wrap 以贪心策略按空白分词折行：尽可能多地把词放进一行，只在词与词之间断开。
// 比单独一行还宽的词不会被拆分，而是独占一行（允许超出 maxWidth）。
// 空输入返回空切片。measure 必须对相同输入返回相同宽度。
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 4)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
