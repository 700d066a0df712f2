package model

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// Article 当前聚合文章（每支球队至多一篇，归档后清空）
type Article struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement"`
	TeamID      uint           `gorm:"column:team_id;uniqueIndex;not null"`      // 关联球队（1:1）
	Title       string         `gorm:"column:title;type:varchar(255);not null"`  // 标题
	Summary     string         `gorm:"column:summary;type:text"`                 // 摘要（正文截断生成）
	Content     string         `gorm:"column:content;type:text"`                 // 正文（累积合成，只增不减）
	Sources     datatypes.JSON `gorm:"column:sources"`                           // 来源RSS地址集合（JSON数组，只增不减）
	Version     uint           `gorm:"column:version;not null;default:0"`        // 乐观锁版本号
	LastUpdated time.Time      `gorm:"column:last_updated;autoUpdateTime"`       // 最近合成时间
}

func (Article) TableName() string { return "articles" }

// ArticleHistory 文章归档记录（只增不改，归档时整篇快照）
type ArticleHistory struct {
	ID           uint           `gorm:"column:id;primaryKey;autoIncrement"`
	TeamID       uint           `gorm:"column:team_id;index;not null"`           // 原文章所属球队
	Title        string         `gorm:"column:title;type:varchar(255);not null"` // 归档时的标题
	Summary      string         `gorm:"column:summary;type:text"`                // 归档时的摘要
	Content      string         `gorm:"column:content;type:text"`                // 归档时的正文
	Sources      datatypes.JSON `gorm:"column:sources"`                          // 归档时的来源集合
	ArchivedDate time.Time      `gorm:"column:archived_date;type:date;not null"` // 归档对应的日期（前一天）
	ArchivedAt   time.Time      `gorm:"column:archived_at;autoCreateTime"`       // 归档执行时间
}

func (ArticleHistory) TableName() string { return "article_history" }

// DecodeSources 解析Sources字段为字符串切片（空值返回空切片）
func DecodeSources(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var sources []string
	if err := json.Unmarshal(raw, &sources); err != nil {
		return []string{}
	}
	return sources
}

// MergeSources 取并集并稳定排序后重新编码（来源集合只增不减）
func MergeSources(raw datatypes.JSON, added []string) datatypes.JSON {
	set := make(map[string]struct{})
	for _, s := range DecodeSources(raw) {
		set[s] = struct{}{}
	}
	for _, s := range added {
		if s != "" {
			set[s] = struct{}{}
		}
	}

	merged := make([]string, 0, len(set))
	for s := range set {
		merged = append(merged, s)
	}
	sort.Strings(merged)

	encoded, err := json.Marshal(merged)
	if err != nil {
		return raw
	}
	return encoded
}
