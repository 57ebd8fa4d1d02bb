package llm

import (
	"fmt"
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

const RecognizePrompt = `请仔细分析这张图片，提取其中的所有文字内容。
要求：
1. 完整提取图片中的所有文字，保持原有的排版和段落结构
2. 如果是多图拼接，请按图片顺序整理文字
3. 忽略水印、装饰性文字
4. 只返回提取的文字内容，不要添加任何额外说明`

// DefaultSummaryRules apply when the user has not set custom rules.
const DefaultSummaryRules = `1. **核心摘要**：
   - 保留原文的核心论点和关键细节，不限制字数
   - 如果有具体的方法、步骤、规则，必须完整保留
   - 保留数据、示例、对比等重要信息
   - 保持原文的逻辑结构和重点层次

2. **关键词提取**（3-5个）：
   - 提取最核心的主题词
   - 优先选择专业术语和核心概念

3. **情感分析**：
   - positive: 积极、正面、乐观的内容
   - neutral: 客观陈述、中立观点
   - negative: 批评、负面、消极的内容

4. **内容分类**（选择最匹配的一个）：
   - 技术：编程、开发、工具、框架、技术方案
   - 产品：产品设计、功能特性、用户体验
   - 营销：市场策略、增长方法、推广技巧
   - 资讯：行业新闻、事件报道、趋势动态
   - 观点：个人见解、深度思考、评论分析
   - 生活：日常分享、生活感悟、娱乐内容
   - 其他：不属于以上类别`

const DefaultCreationRules = `你是一位专业的社交媒体内容创作者，专注于 Twitter/X 平台。

**排版规则**：
1. 使用空行分段，让内容更易读
2. 重要观点单独成段
3. 适当使用 emoji 增加表现力（但不要过度）
4. 开头要有吸引力，结尾可以有 call-to-action

**内容要求**：
1. 观点清晰，表达有力
2. 避免空洞的套话
3. 如有数据或案例，要具体
4. 保持真实感和个人风格`

var languages = map[domain.Language]string{
	domain.LanguageZh: "中文",
	domain.LanguageEn: "English",
	domain.LanguageJa: "日本語",
	domain.LanguageKo: "한국어",
}

var tones = map[domain.Tone]string{
	domain.ToneProfessional: "专业严肃",
	domain.ToneCasual:       "轻松幽默",
	domain.ToneConcise:      "简洁精炼",
	domain.ToneDetailed:     "详细解释",
}

var lengths = map[domain.Length]string{
	domain.LengthShort:    "短推（<140字，1-2段）",
	domain.LengthStandard: "标准（140-280字，2-4段）",
	domain.LengthLong:     "长文（需要分段，每段不超过280字，可以有5-8段）",
}

// SummaryPrompt builds the summarization request for content.
func SummaryPrompt(settings domain.Settings, content string) string {
	rules := settings.CustomSummaryPrompt
	if strings.TrimSpace(rules) == "" {
		rules = DefaultSummaryRules
	}
	return fmt.Sprintf(`作为一个专业的内容分析助手，请分析以下推文/笔记内容，提供精准的摘要和分类：

任务要求：
%s

原始内容：
%s

请严格按照以下JSON格式返回（不要添加任何markdown标记）：
{
  "summary": "核心摘要",
  "keywords": ["关键词1", "关键词2", "关键词3"],
  "sentiment": "positive",
  "category": "技术"
}`, rules, content)
}

func CreationPrompt(settings domain.Settings, req domain.CreationRequest, refs []domain.CapturedPost) string {
	rules := settings.CustomCreationPrompt
	if strings.TrimSpace(rules) == "" {
		rules = DefaultCreationRules
	}

	lang := req.Language
	if lang == "" {
		lang = settings.DefaultLanguage
	}
	tone, ok := tones[req.Tone]
	if !ok {
		tone = req.CustomPrompt
		if tone == "" {
			tone = "自然流畅"
		}
	}
	length, ok := lengths[req.Length]
	if !ok {
		length = lengths[domain.LengthStandard]
	}
	language, ok := languages[lang]
	if !ok {
		language = languages[domain.LanguageZh]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n---\n\n请基于以下要求创作推文：\n\n", rules)
	fmt.Fprintf(&sb, "**主题**：%s\n**语言**：%s\n**风格**：%s\n**长度**：%s\n", req.Topic, language, tone, length)

	if len(refs) > 0 {
		sb.WriteString("\n**参考素材**：\n")
		for i, p := range refs {
			ref := p.TextContent
			if p.Enrichment != nil && p.Enrichment.SummaryText != "" {
				ref = p.Enrichment.SummaryText
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, ref)
		}
	}

	sb.WriteString("\n---\n\n请生成3个不同版本的推文，每个版本风格略有不同。\n")
	sb.WriteString("**重要**：每个版本之间用 --- 分隔，直接输出推文内容，不要加\"版本1\"等标签。")
	return sb.String()
}

// SplitDrafts splits a creation reply on "---". A reply without separators is
// a single draft.
func SplitDrafts(reply string) []string {
	var drafts []string
	for _, part := range strings.Split(reply, "---") {
		if part = strings.TrimSpace(part); part != "" {
			drafts = append(drafts, part)
		}
	}
	if len(drafts) == 0 {
		return []string{strings.TrimSpace(reply)}
	}
	return drafts
}
