package plugins

import (
	"regexp"
	"strconv"
	"strings"

	"MaintLens/internal/modules/analysis/domain/analysis"
)

// replyPattern 三个分组依次为：分数、问题块、总结。
// 最左匹配 + 问题块非贪婪，保证各标题取第一次出现的位置。
var replyPattern = regexp.MustCompile(`(?is)\bscore:\s*(-?\d+).*?\bprobleme:(.*?)\bzusammenfassung:(.*)`)

const bulletMarker = "- "

// ParseReply 从模型回复中提取分数、问题列表和总结。
// 格式不符时返回 analysis.FallbackResult() 且 ok 为 false，从不返回错误。
func ParseReply(raw string) (result analysis.Result, ok bool) {
	m := replyPattern.FindStringSubmatch(raw)
	if m == nil {
		return analysis.FallbackResult(), false
	}

	// 分数不做范围裁剪，超出 0-100 的值原样透传
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return analysis.FallbackResult(), false
	}

	return analysis.Result{
		Score:   score,
		Issues:  parseIssues(m[2]),
		Summary: strings.TrimSpace(m[3]),
	}, true
}

func parseIssues(block string) []string {
	issues := make([]string, 0)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, bulletMarker) {
			continue
		}
		issues = append(issues, strings.TrimSpace(strings.TrimPrefix(line, bulletMarker)))
	}
	return issues
}
