package service

import (
	"context"
	"testing"

	"TeamNewsSync/internal/model"
)

// 两篇文章归档后历史表两条、当前表清空；连续第二次归档为安全空操作
func TestArchiveAllThenIdempotent(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, db, "Napoli", "Inter")
	for i, team := range teams {
		if err := db.Create(&model.Article{
			TeamID: team.ID,
			Title:  team.Name + "动态",
			Content: "contenuto " + team.Name,
			Sources: model.MergeSources(nil, []string{"https://s.example/rss"}),
		}).Error; err != nil {
			t.Fatalf("写入文章%d失败: %v", i, err)
		}
	}

	_, _, archiveSvc := newServices(db, &stubAI{}, nil)
	if err := archiveSvc.ArchiveAll(context.Background()); err != nil {
		t.Fatalf("归档失败: %v", err)
	}

	var historyCount, articleCount int64
	db.Model(&model.ArticleHistory{}).Count(&historyCount)
	db.Model(&model.Article{}).Count(&articleCount)
	if historyCount != 2 {
		t.Fatalf("历史记录数 = %d, 期望2", historyCount)
	}
	if articleCount != 0 {
		t.Fatalf("当前文章数 = %d, 期望0", articleCount)
	}

	// 历史记录内容与原文章一致
	var record model.ArticleHistory
	if err := db.Where("team_id = ?", teams[0].ID).First(&record).Error; err != nil {
		t.Fatalf("查询历史记录失败: %v", err)
	}
	if record.Title != "Napoli动态" || record.Content != "contenuto Napoli" {
		t.Fatalf("历史记录内容不匹配: %q/%q", record.Title, record.Content)
	}

	// 第二次归档：零新增、无错误
	if err := archiveSvc.ArchiveAll(context.Background()); err != nil {
		t.Fatalf("第二次归档失败: %v", err)
	}
	db.Model(&model.ArticleHistory{}).Count(&historyCount)
	if historyCount != 2 {
		t.Fatalf("第二次归档后历史记录数 = %d, 期望仍为2", historyCount)
	}
}

// 拷贝进历史表失败时绝不删除当前文章（历史表被移除模拟拷贝失败）
func TestArchiveCopyFailureKeepsArticles(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, db, "Napoli")
	if err := db.Create(&model.Article{TeamID: teams[0].ID, Title: "t", Content: "c"}).Error; err != nil {
		t.Fatalf("写入文章失败: %v", err)
	}

	if err := db.Migrator().DropTable(&model.ArticleHistory{}); err != nil {
		t.Fatalf("移除历史表失败: %v", err)
	}

	_, _, archiveSvc := newServices(db, &stubAI{}, nil)
	if err := archiveSvc.ArchiveAll(context.Background()); err == nil {
		t.Fatal("拷贝失败时归档应返回错误")
	}

	var articleCount int64
	db.Model(&model.Article{}).Count(&articleCount)
	if articleCount != 1 {
		t.Fatalf("拷贝失败后当前文章数 = %d, 不允许任何删除", articleCount)
	}
}
