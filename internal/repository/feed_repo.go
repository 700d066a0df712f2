package repository

import (
	"context"
	"fmt"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"gorm.io/gorm"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) interfaces.FeedRepository {
	return &FeedRepository{db: db}
}

// ExistsByEntryID 去重键是否已入库
func (r *FeedRepository) ExistsByEntryID(ctx context.Context, entryID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.FeedEntry{}).
		Where("feed_entry_id = ?", entryID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询条目去重键失败: %w", err)
	}
	return count > 0, nil
}

// CreateEntry 新条目入库（唯一索引兜底并发下的重复插入）
func (r *FeedRepository) CreateEntry(ctx context.Context, entry *model.FeedEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("条目入库失败: %w, entry_id: %s", err, entry.FeedEntryID)
	}
	return nil
}

// ListUnassigned 未分类条目（team为空且未处理），按入库顺序返回
func (r *FeedRepository) ListUnassigned(ctx context.Context) ([]*model.FeedEntry, error) {
	var entries []*model.FeedEntry
	if err := r.db.WithContext(ctx).
		Where("team_id IS NULL AND processed = ?", false).
		Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询未分类条目失败: %w", err)
	}
	return entries, nil
}

// ListPendingForTeam 指定球队已关联、未成稿的条目
func (r *FeedRepository) ListPendingForTeam(ctx context.Context, teamID uint) ([]*model.FeedEntry, error) {
	var entries []*model.FeedEntry
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND processed = ?", teamID, false).
		Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询球队%d待成稿条目失败: %w", teamID, err)
	}
	return entries, nil
}

// AssignTeam 关联球队。只更新team_id，processed留给成稿事务一并提交，
// 保证关联先于消费落库。已处理的条目不允许改写。
func (r *FeedRepository) AssignTeam(ctx context.Context, entryID uint, teamID uint) error {
	result := r.db.WithContext(ctx).Model(&model.FeedEntry{}).
		Where("id = ? AND processed = ?", entryID, false).
		Update("team_id", teamID)
	if result.Error != nil {
		return fmt.Errorf("关联球队失败: %w, entry: %d", result.Error, entryID)
	}
	return nil
}

// MarkProcessedNoTeam 判定无关联球队，直接标记处理完成（之后不再回访）
func (r *FeedRepository) MarkProcessedNoTeam(ctx context.Context, entryID uint) error {
	result := r.db.WithContext(ctx).Model(&model.FeedEntry{}).
		Where("id = ? AND processed = ?", entryID, false).
		Update("processed", true)
	if result.Error != nil {
		return fmt.Errorf("标记条目处理完成失败: %w, entry: %d", result.Error, entryID)
	}
	return nil
}
