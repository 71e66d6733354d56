package layout

// PlaceOffice 决定办公室新闻块的落点。
// 右栏光标超过阈值时，回退到左栏的固定纵向位置；否则在右栏紧接当前光标继续。
// 回退分支不检查左栏是否还有空间，内容可能超出页面。
func PlaceOffice(cursor float64, g Geometry) (Column, float64) {
	if cursor > g.OverflowThreshold {
		return ColumnLeft, g.FallbackY
	}
	return ColumnRight, cursor
}
