package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"gorm.io/gorm"
)

// ErrVersionConflict 文章在本批次读取后被并发批次改写（乐观锁冲突），
// 整个事务回滚，条目保持未处理，等下一轮触发重试。
var ErrVersionConflict = errors.New("文章版本冲突，本批次回滚")

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) interfaces.ArticleRepository {
	return &ArticleRepository{db: db}
}

// GetByTeam 球队当前文章，无则返回nil
func (r *ArticleRepository) GetByTeam(ctx context.Context, teamID uint) (*model.Article, error) {
	var article model.Article
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询球队%d文章失败: %w", teamID, err)
	}
	return &article, nil
}

// ListArticles 全部当前文章，按球队排序
func (r *ArticleRepository) ListArticles(ctx context.Context) ([]*model.Article, error) {
	var articles []*model.Article
	if err := r.db.WithContext(ctx).Order("team_id ASC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}
	return articles, nil
}

// SaveSynthesis 成稿提交：文章新建/更新与消费条目的processed标记在同一事务落库，
// 要么全部生效要么全部回滚，崩溃不会造成条目丢失或重复计入。
// 更新走乐观锁（version匹配才生效），避免并发批次互相覆盖。
func (r *ArticleRepository) SaveSynthesis(ctx context.Context, article *model.Article, consumedEntryIDs []uint) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启成稿事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	// 1. 文章落库
	if article.ID == 0 {
		if err := tx.Create(article).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("新建文章失败: %w, team: %d", err, article.TeamID)
		}
	} else {
		result := tx.Model(&model.Article{}).
			Where("id = ? AND version = ?", article.ID, article.Version).
			Updates(map[string]interface{}{
				"title":        article.Title,
				"summary":      article.Summary,
				"content":      article.Content,
				"sources":      article.Sources,
				"version":      article.Version + 1,
				"last_updated": time.Now(),
			})
		if result.Error != nil {
			tx.Rollback()
			return fmt.Errorf("更新文章失败: %w, team: %d", result.Error, article.TeamID)
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			return fmt.Errorf("%w, team: %d", ErrVersionConflict, article.TeamID)
		}
	}

	// 2. 消费条目标记processed
	if len(consumedEntryIDs) > 0 {
		if err := tx.Model(&model.FeedEntry{}).
			Where("id IN ?", consumedEntryIDs).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("标记消费条目失败: %w, team: %d", err, article.TeamID)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交成稿事务失败: %w", err)
	}
	return nil
}

// ArchiveAll 全量归档：先在一个事务里把所有当前文章整体拷贝进历史表并提交，
// 拷贝全部成功后才在第二个事务里清空当前表。拷贝任何失败都不触碰删除，
// 避免部分拷贝后删除造成不可恢复的数据丢失。连续两次调用第二次为安全空操作。
func (r *ArticleRepository) ArchiveAll(ctx context.Context, archivedDate time.Time) (int, error) {
	var articles []*model.Article
	if err := r.db.WithContext(ctx).Find(&articles).Error; err != nil {
		return 0, fmt.Errorf("查询待归档文章失败: %w", err)
	}
	if len(articles) == 0 {
		return 0, nil
	}

	// 1. 拷贝进历史表（单事务）
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("开启归档事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	for _, art := range articles {
		record := &model.ArticleHistory{
			TeamID:       art.TeamID,
			Title:        art.Title,
			Summary:      art.Summary,
			Content:      art.Content,
			Sources:      art.Sources,
			ArchivedDate: archivedDate,
		}
		if err := tx.Create(record).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("归档文章失败: %w, team: %d", err, art.TeamID)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("提交归档事务失败: %w", err)
	}

	// 2. 拷贝已提交，清空当前表
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Article{}).Error; err != nil {
		return 0, fmt.Errorf("清空当前文章表失败: %w", err)
	}
	return len(articles), nil
}

// CountArticles 当前文章数
func (r *ArticleRepository) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计文章数失败: %w", err)
	}
	return count, nil
}
