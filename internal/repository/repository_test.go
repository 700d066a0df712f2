package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"TeamNewsSync/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Team{}, &model.FeedEntry{}, &model.Article{}, &model.ArticleHistory{}); err != nil {
		t.Fatalf("迁移测试库失败: %v", err)
	}
	return db
}

// 去重键唯一索引：重复入库直接报错，条目数不变
func TestCreateEntryUniqueKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	entry := &model.FeedEntry{FeedSource: "s", FeedEntryID: "dup-1", Title: "t", Link: "l"}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}

	dup := &model.FeedEntry{FeedSource: "s", FeedEntryID: "dup-1", Title: "t2", Link: "l2"}
	if err := repo.CreateEntry(ctx, dup); err == nil {
		t.Fatal("重复去重键入库应报错")
	}

	exists, err := repo.ExistsByEntryID(ctx, "dup-1")
	if err != nil {
		t.Fatalf("去重查询失败: %v", err)
	}
	if !exists {
		t.Fatal("去重键应已存在")
	}

	var count int64
	db.Model(&model.FeedEntry{}).Count(&count)
	if count != 1 {
		t.Fatalf("条目数 = %d, 期望1", count)
	}
}

// 乐观锁冲突：版本不匹配时整个成稿事务回滚，条目保持未处理
func TestSaveSynthesisVersionConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	team := &model.Team{Name: "Napoli"}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("写入球队失败: %v", err)
	}
	teamID := team.ID
	entry := &model.FeedEntry{FeedSource: "s", FeedEntryID: "e-1", Title: "t", Link: "l", TeamID: &teamID}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("写入条目失败: %v", err)
	}

	article := &model.Article{TeamID: team.ID, Title: "v0", Content: "c0"}
	if err := repo.SaveSynthesis(ctx, article, nil); err != nil {
		t.Fatalf("新建文章失败: %v", err)
	}

	// 读出后模拟并发批次抢先更新了版本号
	stale, err := repo.GetByTeam(ctx, team.ID)
	if err != nil || stale == nil {
		t.Fatalf("读取文章失败: %v", err)
	}
	if err := db.Model(&model.Article{}).Where("id = ?", stale.ID).
		Update("version", stale.Version+1).Error; err != nil {
		t.Fatalf("模拟并发更新失败: %v", err)
	}

	stale.Content = "perso"
	err = repo.SaveSynthesis(ctx, stale, []uint{entry.ID})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("期望版本冲突错误, got: %v", err)
	}

	// 事务整体回滚：条目仍未处理，内容未被覆盖
	var gotEntry model.FeedEntry
	db.First(&gotEntry, entry.ID)
	if gotEntry.Processed {
		t.Error("冲突回滚后条目不应被标记processed")
	}
	var gotArticle model.Article
	db.First(&gotArticle, stale.ID)
	if gotArticle.Content == "perso" {
		t.Error("冲突回滚后文章内容不应被覆盖")
	}
}

// 成稿事务：文章更新与processed标记一起落库
func TestSaveSynthesisCommitsTogether(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	team := &model.Team{Name: "Inter"}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("写入球队失败: %v", err)
	}
	teamID := team.ID
	entry := &model.FeedEntry{FeedSource: "s", FeedEntryID: "e-1", Title: "t", Link: "l", TeamID: &teamID}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("写入条目失败: %v", err)
	}

	article := &model.Article{TeamID: team.ID, Title: "t1", Content: "c1"}
	if err := repo.SaveSynthesis(ctx, article, []uint{entry.ID}); err != nil {
		t.Fatalf("成稿提交失败: %v", err)
	}

	var gotEntry model.FeedEntry
	db.First(&gotEntry, entry.ID)
	if !gotEntry.Processed {
		t.Error("条目应随文章一起标记processed")
	}
	count, err := repo.CountArticles(ctx)
	if err != nil || count != 1 {
		t.Fatalf("文章数 = %d, err = %v, 期望1", count, err)
	}
}

// 球队名称查找不区分大小写
func TestGetTeamByNameCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	if err := repo.SeedTeams(ctx, []*model.Team{{Name: "Napoli"}}); err != nil {
		t.Fatalf("初始化球队失败: %v", err)
	}
	// 重复seed不产生新行
	if err := repo.SeedTeams(ctx, []*model.Team{{Name: "NAPOLI"}}); err != nil {
		t.Fatalf("重复初始化失败: %v", err)
	}

	teams, err := repo.ListTeams(ctx)
	if err != nil {
		t.Fatalf("查询球队失败: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("球队数 = %d, 期望1", len(teams))
	}

	got, err := repo.GetTeamByName(ctx, "napoli")
	if err != nil {
		t.Fatalf("按名称查找失败: %v", err)
	}
	if got == nil || got.Name != "Napoli" {
		t.Fatalf("查找结果 = %+v, 期望Napoli", got)
	}
}
