package interfaces

import (
	"context"
	"time"

	"TeamNewsSync/internal/model"
)

// TeamRepository 球队表通用操作接口
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]*model.Team, error)                 // 按ID升序返回全部球队
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)  // 按名称查找（不区分大小写）
	SeedTeams(ctx context.Context, seeds []*model.Team) error             // 初始化球队（已存在则跳过）
}

// FeedRepository RSS条目表通用操作接口
type FeedRepository interface {
	ExistsByEntryID(ctx context.Context, entryID string) (bool, error)           // 去重键是否已入库
	CreateEntry(ctx context.Context, entry *model.FeedEntry) error               // 新条目入库
	ListUnassigned(ctx context.Context) ([]*model.FeedEntry, error)              // 未分类条目（team为空且未处理）
	ListPendingForTeam(ctx context.Context, teamID uint) ([]*model.FeedEntry, error) // 指定球队待成稿条目
	AssignTeam(ctx context.Context, entryID uint, teamID uint) error             // 关联球队（不动processed）
	MarkProcessedNoTeam(ctx context.Context, entryID uint) error                 // 判定无关联，标记处理完成
}

// ArticleRepository 文章及归档表通用操作接口
type ArticleRepository interface {
	GetByTeam(ctx context.Context, teamID uint) (*model.Article, error)          // 球队当前文章（无则返回nil）
	ListArticles(ctx context.Context) ([]*model.Article, error)                  // 全部当前文章
	SaveSynthesis(ctx context.Context, article *model.Article, consumedEntryIDs []uint) error // 文章与processed标记同事务提交
	ArchiveAll(ctx context.Context, archivedDate time.Time) (int, error)         // 全量归档（先整体拷贝提交，再删除）
	CountArticles(ctx context.Context) (int64, error)                            // 当前文章数
}
