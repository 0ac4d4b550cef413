package core

import "strings"

// NormalizeTitle 是片名的唯一规范化函数，所有按片名 join / 查找的地方都要用它：
//   - 转小写
//   - 删除冒号
//   - 连字符替换为空格（与从 URL slug 还原的片名对齐）
//   - 合并连续空白并去掉首尾空白
//
// 例如 "Se7en:" -> "se7en"，"Spider-Man: No Way Home" -> "spider man no way home"。
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = strings.ReplaceAll(t, ":", "")
	t = strings.ReplaceAll(t, "-", " ")
	return strings.Join(strings.Fields(t), " ")
}

// WatchedSet 返回已评分片名的规范化集合。
func WatchedSet(rated []RatedMovie) map[string]struct{} {
	set := make(map[string]struct{}, len(rated))
	for _, m := range rated {
		set[NormalizeTitle(m.Title)] = struct{}{}
	}
	return set
}
