package service

import (
	"context"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"github.com/sirupsen/logrus"
)

// IngestService RSS抓取入库：逐源抓取、按条目去重键跳过已有条目、新条目入库为未处理状态。
// 单个源或单条数据出错只记录日志并继续，不中断整轮抓取。
type IngestService struct {
	fetcher  interfaces.FeedFetcher
	feedRepo interfaces.FeedRepository
	feedURLs []string
	logger   *logrus.Logger
}

func NewIngestService(fetcher interfaces.FeedFetcher, feedRepo interfaces.FeedRepository, feedURLs []string, logger *logrus.Logger) *IngestService {
	return &IngestService{
		fetcher:  fetcher,
		feedRepo: feedRepo,
		feedURLs: feedURLs,
		logger:   logger,
	}
}

// IngestAll 抓取全部配置源，返回新入库条目数
func (s *IngestService) IngestAll(ctx context.Context) (int, error) {
	newCount := 0

	for _, feedURL := range s.feedURLs {
		entries, err := s.fetcher.FetchEntries(ctx, feedURL)
		if err != nil {
			s.logger.WithError(err).WithField("url", feedURL).Error("RSS源抓取失败，跳过该源")
			continue
		}

		for _, raw := range entries {
			exists, err := s.feedRepo.ExistsByEntryID(ctx, raw.EntryID)
			if err != nil {
				s.logger.WithError(err).WithField("entry_id", raw.EntryID).Error("条目去重查询失败，跳过该条")
				continue
			}
			if exists {
				continue
			}

			entry := &model.FeedEntry{
				FeedSource:  raw.FeedSource,
				FeedEntryID: raw.EntryID,
				Title:       raw.Title,
				Link:        raw.Link,
				Summary:     raw.Summary,
				Content:     raw.Content,
				PublishedAt: raw.PublishedAt,
				Processed:   false,
			}
			if err := s.feedRepo.CreateEntry(ctx, entry); err != nil {
				s.logger.WithError(err).WithField("entry_id", raw.EntryID).Error("条目入库失败，跳过该条")
				continue
			}
			newCount++
		}
	}

	s.logger.Infof("RSS抓取完成，新入库%d条", newCount)
	return newCount, nil
}
