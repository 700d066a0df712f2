package model

import "time"

// FeedEntry 已抓取的RSS条目（永久保留，作为溯源记录，不做删除）
// 状态组合：
//
//	team_id为空 + processed=false → 未分类
//	team_id非空 + processed=false → 已关联球队，等待成稿
//	team_id为空 + processed=true  → 明确无关联（不再回访）
//	team_id非空 + processed=true  → 已写入文章
type FeedEntry struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	FeedSource  string    `gorm:"column:feed_source;type:varchar(255);not null"`            // 来源RSS地址
	FeedEntryID string    `gorm:"column:feed_entry_id;type:varchar(255);uniqueIndex;not null"` // 条目去重键（GUID，缺失时用link）
	Title       string    `gorm:"column:title;type:varchar(255);not null"`                  // 标题
	Link        string    `gorm:"column:link;type:varchar(255);not null"`                   // 原文链接
	Summary     string    `gorm:"column:summary;type:text"`                                 // 摘要
	Content     string    `gorm:"column:content;type:text"`                                 // 正文（不截断）
	PublishedAt time.Time `gorm:"column:published_at;not null"`                             // 发布时间（源缺失时取入库时间）
	TeamID      *uint     `gorm:"column:team_id;index"`                                     // 关联球队（可空）
	Processed   bool      `gorm:"column:processed;not null;default:false"`                  // 是否已写入文章/已判定无关联
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`                         // 入库时间
}

func (FeedEntry) TableName() string { return "feed_entries" }
