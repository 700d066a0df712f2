package service

import (
	"context"
	"strings"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Strategy 球队分类策略接口：对相同输入必须返回相同结果。
// 返回匹配到的球队，无匹配返回nil。
type Strategy interface {
	Match(ctx context.Context, entry *model.FeedEntry, teams []*model.Team) (*model.Team, error)
}

// RuleStrategy 规则策略：球队名称在条目文本（标题+正文）中不区分大小写出现即命中，
// 按球队列表顺序取第一个命中者。不依赖外部服务，始终可用。
type RuleStrategy struct{}

func NewRuleStrategy() *RuleStrategy { return &RuleStrategy{} }

func (s *RuleStrategy) Match(_ context.Context, entry *model.FeedEntry, teams []*model.Team) (*model.Team, error) {
	text := strings.ToLower(entry.Title + "\n" + entry.Content)
	for _, team := range teams {
		if team.Name == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(team.Name)) {
			return team, nil
		}
	}
	return nil, nil
}

// AIStrategy 模型策略：调用分类接口选球队，调用失败或答案不在球队列表内时
// 回退到规则策略，保证单次调用异常不阻塞批次且结果保持确定性。
type AIStrategy struct {
	ai       interfaces.AIClient
	fallback *RuleStrategy
	logger   *logrus.Logger
}

func NewAIStrategy(ai interfaces.AIClient, logger *logrus.Logger) *AIStrategy {
	return &AIStrategy{
		ai:       ai,
		fallback: NewRuleStrategy(),
		logger:   logger,
	}
}

func (s *AIStrategy) Match(ctx context.Context, entry *model.FeedEntry, teams []*model.Team) (*model.Team, error) {
	names := make([]string, 0, len(teams))
	for _, team := range teams {
		names = append(names, team.Name)
	}

	text := "标题：" + entry.Title + "\n正文：" + entry.Content
	answer, err := s.ai.ClassifyTeam(ctx, text, names)
	if err != nil {
		s.logger.WithError(err).WithField("entry", entry.ID).Warn("分类接口调用失败，回退规则匹配")
		return s.fallback.Match(ctx, entry, teams)
	}
	if answer == "" {
		return nil, nil
	}

	for _, team := range teams {
		if strings.EqualFold(team.Name, answer) {
			return team, nil
		}
	}
	// 答案不在球队列表内，按脏数据处理，回退规则匹配
	s.logger.WithField("entry", entry.ID).WithField("answer", answer).Warn("分类结果不在球队列表内，回退规则匹配")
	return s.fallback.Match(ctx, entry, teams)
}

// ClassifyService 把未分类条目逐条归入球队：命中则只写team_id（processed留给成稿事务），
// 未命中则标记处理完成且无关联，之后不再回访。
type ClassifyService struct {
	strategy Strategy
	teamRepo interfaces.TeamRepository
	feedRepo interfaces.FeedRepository
	logger   *logrus.Logger
}

func NewClassifyService(strategy Strategy, teamRepo interfaces.TeamRepository, feedRepo interfaces.FeedRepository, logger *logrus.Logger) *ClassifyService {
	return &ClassifyService{
		strategy: strategy,
		teamRepo: teamRepo,
		feedRepo: feedRepo,
		logger:   logger,
	}
}

// ClassifyAll 处理全部未分类条目，返回完成关联的条目数。
// 单条失败只记录日志并继续，该条保持未分类，等下一轮触发重试。
func (s *ClassifyService) ClassifyAll(ctx context.Context) (int, error) {
	entries, err := s.feedRepo.ListUnassigned(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		s.logger.Info("没有待分类条目")
		return 0, nil
	}

	teams, err := s.teamRepo.ListTeams(ctx)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, entry := range entries {
		team, err := s.strategy.Match(ctx, entry, teams)
		if err != nil {
			s.logger.WithError(err).WithField("entry", entry.ID).Error("条目分类失败，留待下轮重试")
			continue
		}

		if team == nil {
			if err := s.feedRepo.MarkProcessedNoTeam(ctx, entry.ID); err != nil {
				s.logger.WithError(err).WithField("entry", entry.ID).Error("标记无关联失败，留待下轮重试")
			}
			continue
		}

		if err := s.feedRepo.AssignTeam(ctx, entry.ID, team.ID); err != nil {
			s.logger.WithError(err).WithField("entry", entry.ID).Error("关联球队失败，留待下轮重试")
			continue
		}
		assigned++
	}

	s.logger.Infof("条目分类完成，共%d条，完成关联%d条", len(entries), assigned)
	return assigned, nil
}
