package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"
	"TeamNewsSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 测试用sqlite库（每个测试独立文件，结构与生产一致）
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

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedTeams(t *testing.T, db *gorm.DB, names ...string) []*model.Team {
	t.Helper()
	teams := make([]*model.Team, 0, len(names))
	for _, name := range names {
		team := &model.Team{Name: name}
		if err := db.Create(team).Error; err != nil {
			t.Fatalf("写入球队%s失败: %v", name, err)
		}
		teams = append(teams, team)
	}
	return teams
}

func seedEntry(t *testing.T, db *gorm.DB, entry *model.FeedEntry) *model.FeedEntry {
	t.Helper()
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("写入条目失败: %v", err)
	}
	return entry
}

// stubAI 确定性AI桩：合成结果为已有正文与新素材的拼接，便于验证融合调用确实带上了旧正文
type stubAI struct {
	classifyAnswer string
	classifyErr    error
	synthesizeErr  error
	classifyCalls  int
}

func (s *stubAI) ClassifyTeam(_ context.Context, _ string, _ []string) (string, error) {
	s.classifyCalls++
	if s.classifyErr != nil {
		return "", s.classifyErr
	}
	return s.classifyAnswer, nil
}

func (s *stubAI) SynthesizeArticle(_ context.Context, prior string, items []interfaces.NewsItem) (string, string, error) {
	if s.synthesizeErr != nil {
		return "", "", s.synthesizeErr
	}
	parts := make([]string, 0, len(items)+1)
	if prior != "" {
		parts = append(parts, prior)
	}
	for _, item := range items {
		parts = append(parts, item.Content)
	}
	return "合成标题", strings.Join(parts, " | "), nil
}

// stubFetcher 按URL返回预置条目，缺失的URL返回错误
type stubFetcher struct {
	entries map[string][]*interfaces.RawFeedEntry
}

func (s *stubFetcher) FetchEntries(_ context.Context, feedURL string) ([]*interfaces.RawFeedEntry, error) {
	entries, ok := s.entries[feedURL]
	if !ok {
		return nil, fmt.Errorf("源不可达: %s", feedURL)
	}
	return entries, nil
}

// newServices 组装一套基于真实仓储的service
func newServices(db *gorm.DB, ai interfaces.AIClient, strategy Strategy) (*ClassifyService, *SynthesizeService, *ArchiveService) {
	l := newTestLogger()
	teamRepo := repository.NewTeamRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	return NewClassifyService(strategy, teamRepo, feedRepo, l),
		NewSynthesizeService(ai, teamRepo, feedRepo, articleRepo, l),
		NewArchiveService(articleRepo, l)
}
