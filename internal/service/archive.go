package service

import (
	"context"
	"time"

	"TeamNewsSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ArchiveService 每日归档：把全部当前文章快照进历史表后清空当前表。
// 拷贝与删除分两个事务，拷贝整体提交成功前绝不删除。
type ArchiveService struct {
	articleRepo interfaces.ArticleRepository
	logger      *logrus.Logger
}

func NewArchiveService(articleRepo interfaces.ArticleRepository, logger *logrus.Logger) *ArchiveService {
	return &ArchiveService{articleRepo: articleRepo, logger: logger}
}

// ArchiveAll 执行归档，历史记录的归档日期取前一天（归档的是昨天的文章）。
// 当前表为空时是安全空操作，连续触发两次第二次不产生任何记录。
func (s *ArchiveService) ArchiveAll(ctx context.Context) error {
	archivedDate := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	count, err := s.articleRepo.ArchiveAll(ctx, archivedDate)
	if err != nil {
		// 归档失败属于数据完整性问题，直接上抛为任务失败，不做局部恢复
		return err
	}

	if count == 0 {
		s.logger.Info("没有待归档文章")
		return nil
	}
	s.logger.Infof("归档完成，共%d篇文章移入历史表", count)
	return nil
}
