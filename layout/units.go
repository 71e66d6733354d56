package layout

// 版面坐标统一使用 mm，字号使用 pt。

// PtToMm 是 1pt 对应的毫米数。
const PtToMm = 0.352777

// ToMM 将点(pt)转换为毫米(mm)。
func ToMM(pt float64) float64 { return pt * PtToMm }
