package rss

import (
	"context"
	"fmt"
	"time"

	"TeamNewsSync/internal/config"
	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/utils/httpclient"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

// Fetcher 基于gofeed的RSS源适配器，负责抓取与字段规整
type Fetcher struct {
	parser      *gofeed.Parser
	timeout     time.Duration
	maxFieldLen int
	logger      *logrus.Logger
}

func NewFetcher(cfg *config.IngestConfig, logger *logrus.Logger) interfaces.FeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = httpclient.NewHTTPClient(cfg.FetchTimeout, "", logger)
	return &Fetcher{
		parser:      parser,
		timeout:     time.Duration(cfg.FetchTimeout) * time.Second,
		maxFieldLen: cfg.MaxFieldLen,
		logger:      logger,
	}
}

// FetchEntries 抓取单个RSS源并规整全部条目。
// 去重键取GUID，缺失时退回link；可选字段缺失补空串；
// 发布时间缺失或不可解析时取当前时间。
func (f *Fetcher) FetchEntries(ctx context.Context, feedURL string) ([]*interfaces.RawFeedEntry, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("抓取RSS源失败: %w, url: %s", err, feedURL)
	}

	entries := make([]*interfaces.RawFeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entryID := item.GUID
		if entryID == "" {
			entryID = item.Link
		}
		if entryID == "" {
			f.logger.WithField("url", feedURL).Warn("条目缺少GUID与link，跳过")
			continue
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		// 正文优先取content，缺失时退回description；正文不截断
		content := item.Content
		if content == "" {
			content = item.Description
		}

		entries = append(entries, &interfaces.RawFeedEntry{
			FeedSource:  f.truncate(feedURL),
			EntryID:     f.truncate(entryID),
			Title:       f.truncate(item.Title),
			Link:        f.truncate(item.Link),
			Summary:     f.truncate(item.Description),
			Content:     content,
			PublishedAt: publishedAt,
		})
	}
	return entries, nil
}

// truncate 按配置长度截断（按rune计数，避免截断多字节字符）
func (f *Fetcher) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= f.maxFieldLen {
		return s
	}
	return string(runes[:f.maxFieldLen])
}
