package post

import (
	"sort"
	"strings"
)

// CleanTags はタグ名を正規化する。
// 小文字化と前後空白の除去を行い、空文字列を捨てて重複を除いた結果を名前順で返す。
// 冪等であり、CleanTags(CleanTags(x))はCleanTags(x)と等しい。
func CleanTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	cleaned := make([]string, 0, len(raw))
	for _, tag := range raw {
		name := strings.ToLower(strings.TrimSpace(tag))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	sort.Strings(cleaned)
	return cleaned
}
