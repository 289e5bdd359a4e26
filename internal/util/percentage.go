package util

// Percentage 返回 part/total 的百分比，四舍五入到整数，结果落在 [0, 100]。
// total 为 0 时返回 0。
func Percentage(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return (part*200 + total) / (2 * total)
}
