package interfaces

import (
	"context"
	"time"
)

// RawFeedEntry RSS源返回的原始条目（已做字段兜底与截断）
type RawFeedEntry struct {
	FeedSource  string    // 来源RSS地址
	EntryID     string    // 去重键（GUID，缺失时用link）
	Title       string    // 标题
	Link        string    // 原文链接
	Summary     string    // 摘要
	Content     string    // 正文
	PublishedAt time.Time // 发布时间（源缺失或不可解析时取当前时间）
}

// FeedFetcher RSS源边界接口
type FeedFetcher interface {
	FetchEntries(ctx context.Context, feedURL string) ([]*RawFeedEntry, error) // 抓取并规整单个源的全部条目
}

// NewsItem 待合成的一条新闻素材
type NewsItem struct {
	Title   string // 标题
	Content string // 正文
}

// AIClient 文本分类与文章合成边界接口（调用可能失败或返回脏数据，调用方必须有确定性兜底）
type AIClient interface {
	// ClassifyTeam 在候选球队中选出条目所属球队，无匹配时返回空串
	ClassifyTeam(ctx context.Context, entryText string, teamNames []string) (string, error)
	// SynthesizeArticle 基于已有正文（可为空）与新素材合成文章，返回标题与正文
	SynthesizeArticle(ctx context.Context, priorContent string, items []NewsItem) (title string, content string, err error)
}
