package service

import (
	"context"
	"strings"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"github.com/sirupsen/logrus"
)

// summaryMaxLen 文章摘要长度上限（取正文前缀，按rune计数）
const summaryMaxLen = 255

// SynthesizeService 按球队把已关联、未成稿的条目合成进当前文章。
// 对每支球队，文章写入与消费条目的processed标记在同一事务提交。
// 合成调用失败时写入确定性兜底内容并照常提交，保证批次持续推进、
// 不产生重试风暴（见DESIGN.md的策略取舍）。
type SynthesizeService struct {
	ai          interfaces.AIClient
	teamRepo    interfaces.TeamRepository
	feedRepo    interfaces.FeedRepository
	articleRepo interfaces.ArticleRepository
	logger      *logrus.Logger
}

func NewSynthesizeService(ai interfaces.AIClient, teamRepo interfaces.TeamRepository, feedRepo interfaces.FeedRepository, articleRepo interfaces.ArticleRepository, logger *logrus.Logger) *SynthesizeService {
	return &SynthesizeService{
		ai:          ai,
		teamRepo:    teamRepo,
		feedRepo:    feedRepo,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// ProcessAllTeams 按球队列表稳定顺序逐队处理。单队失败只记录日志并继续，
// 该队条目保持未处理，等下一轮触发重试。
func (s *SynthesizeService) ProcessAllTeams(ctx context.Context) error {
	teams, err := s.teamRepo.ListTeams(ctx)
	if err != nil {
		return err
	}

	for _, team := range teams {
		if err := s.processTeam(ctx, team); err != nil {
			s.logger.WithError(err).WithField("team", team.Name).Error("球队成稿失败，留待下轮重试")
		}
	}
	return nil
}

// processTeam 单支球队的成稿流程：读待处理条目→合成→同事务提交
func (s *SynthesizeService) processTeam(ctx context.Context, team *model.Team) error {
	article, err := s.articleRepo.GetByTeam(ctx, team.ID)
	if err != nil {
		return err
	}
	pending, err := s.feedRepo.ListPendingForTeam(ctx, team.ID)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		// 有无文章都无需动作
		s.logger.WithField("team", team.Name).Debug("无新条目，跳过")
		return nil
	}

	items := make([]interfaces.NewsItem, 0, len(pending))
	entryIDs := make([]uint, 0, len(pending))
	newSources := make([]string, 0, len(pending))
	for _, entry := range pending {
		items = append(items, interfaces.NewsItem{Title: entry.Title, Content: entry.Content})
		entryIDs = append(entryIDs, entry.ID)
		newSources = append(newSources, entry.FeedSource)
	}

	if article == nil {
		return s.createArticle(ctx, team, items, entryIDs, newSources)
	}
	return s.updateArticle(ctx, team, article, items, entryIDs, newSources)
}

// createArticle 无文章且有新条目：全量素材合成新文章
func (s *SynthesizeService) createArticle(ctx context.Context, team *model.Team, items []interfaces.NewsItem, entryIDs []uint, newSources []string) error {
	title, content, err := s.ai.SynthesizeArticle(ctx, "", items)
	if err != nil {
		// 兜底：标题用球队名，正文用素材标题列表，保证批次推进
		s.logger.WithError(err).WithField("team", team.Name).Warn("文章合成失败，写入兜底内容")
		title = team.Name + "最新动态"
		content = joinItemTitles(items)
	}

	article := &model.Article{
		TeamID:  team.ID,
		Title:   title,
		Summary: makeSummary(content),
		Content: content,
		Sources: model.MergeSources(nil, newSources),
	}
	if err := s.articleRepo.SaveSynthesis(ctx, article, entryIDs); err != nil {
		return err
	}
	s.logger.Infof("球队%s新文章已生成，消费%d条", team.Name, len(entryIDs))
	return nil
}

// updateArticle 已有文章且有新条目：带上已有正文做融合更新。
// 来源集合取并集，只增不减。
func (s *SynthesizeService) updateArticle(ctx context.Context, team *model.Team, article *model.Article, items []interfaces.NewsItem, entryIDs []uint, newSources []string) error {
	title, content, err := s.ai.SynthesizeArticle(ctx, article.Content, items)
	if err != nil {
		// 兜底：保持原标题原正文不变，仍消费条目并累加来源
		s.logger.WithError(err).WithField("team", team.Name).Warn("文章融合失败，保留原内容")
		title = article.Title
		content = article.Content
	}

	article.Title = title
	article.Content = content
	article.Summary = makeSummary(content)
	article.Sources = model.MergeSources(article.Sources, newSources)
	if err := s.articleRepo.SaveSynthesis(ctx, article, entryIDs); err != nil {
		return err
	}
	s.logger.Infof("球队%s文章已更新，消费%d条", team.Name, len(entryIDs))
	return nil
}

// makeSummary 摘要取正文前缀（按rune截断）
func makeSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryMaxLen {
		return content
	}
	return string(runes[:summaryMaxLen])
}

func joinItemTitles(items []interfaces.NewsItem) string {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	return strings.Join(titles, "\n")
}
