package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"
	"TeamNewsSync/internal/repository"
	"TeamNewsSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopFetcher struct{}

func (noopFetcher) FetchEntries(_ context.Context, _ string) ([]*interfaces.RawFeedEntry, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
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

	l := logrus.New()
	l.SetOutput(io.Discard)
	teamRepo := repository.NewTeamRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	articleRepo := repository.NewArticleRepository(db)

	runner := service.NewJobRunner(
		service.NewIngestService(noopFetcher{}, feedRepo, nil, l),
		service.NewClassifyService(service.NewRuleStrategy(), teamRepo, feedRepo, l),
		service.NewSynthesizeService(nil, teamRepo, feedRepo, articleRepo, l),
		service.NewArchiveService(articleRepo, l),
		l,
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	jobHandler := NewJobHandler(runner, l)
	r.GET("/api/jobs/:name", jobHandler.TriggerJob)
	articleHandler := NewArticleHandler(teamRepo, articleRepo, l)
	r.GET("/api/teams", articleHandler.ListTeams)
	r.GET("/api/articles/:team", articleHandler.GetArticleByTeam)
	return r
}

// 触发任务立即返回started回执，不等待任务完成
func TestTriggerJobStarted(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/archive", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("状态码 = %d, 期望202", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body["status"] != "started" || body["job"] != "archive" || body["job_id"] == "" {
		t.Fatalf("回执不完整: %v", body)
	}
}

func TestTriggerJobUnknown(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/no-such-job", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, 期望404", w.Code)
	}
}

func TestGetArticleByTeamNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/Napoli", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, 期望404", w.Code)
	}
}
