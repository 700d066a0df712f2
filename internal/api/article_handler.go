package api

import (
	"net/http"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ArticleHandler 当前文章与球队查询接口（给前端页面用）
type ArticleHandler struct {
	teamRepo    interfaces.TeamRepository
	articleRepo interfaces.ArticleRepository
	logger      *logrus.Logger
}

func NewArticleHandler(teamRepo interfaces.TeamRepository, articleRepo interfaces.ArticleRepository, logger *logrus.Logger) *ArticleHandler {
	return &ArticleHandler{
		teamRepo:    teamRepo,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// articleView 文章展示结构（来源集合解出为字符串数组）
type articleView struct {
	TeamID      uint     `json:"team_id"`
	TeamName    string   `json:"team_name"`
	LogoURL     string   `json:"logo_url"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content"`
	Sources     []string `json:"sources"`
	LastUpdated string   `json:"last_updated"`
}

// ListTeams 球队列表
// GET /api/teams
func (h *ArticleHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamRepo.ListTeams(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListTeams failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, teams)
}

// ListArticles 当前文章列表（按球队排序）
// GET /api/articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	articles, err := h.articleRepo.ListArticles(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListArticles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	teams, err := h.teamRepo.ListTeams(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListArticles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	teamByID := make(map[uint]*model.Team, len(teams))
	for _, team := range teams {
		teamByID[team.ID] = team
	}

	views := make([]articleView, 0, len(articles))
	for _, art := range articles {
		views = append(views, newArticleView(art, teamByID[art.TeamID]))
	}
	c.JSON(http.StatusOK, views)
}

// GetArticleByTeam 按球队名称查当前文章
// GET /api/articles/:team
func (h *ArticleHandler) GetArticleByTeam(c *gin.Context) {
	teamName := c.Param("team")

	team, err := h.teamRepo.GetTeamByName(c.Request.Context(), teamName)
	if err != nil {
		h.logger.WithError(err).Error("GetArticleByTeam failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if team == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "球队不存在"})
		return
	}

	article, err := h.articleRepo.GetByTeam(c.Request.Context(), team.ID)
	if err != nil {
		h.logger.WithError(err).Error("GetArticleByTeam failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "该球队暂无文章"})
		return
	}

	c.JSON(http.StatusOK, newArticleView(article, team))
}

func newArticleView(art *model.Article, team *model.Team) articleView {
	view := articleView{
		TeamID:      art.TeamID,
		Title:       art.Title,
		Summary:     art.Summary,
		Content:     art.Content,
		Sources:     model.DecodeSources(art.Sources),
		LastUpdated: art.LastUpdated.Format("2006-01-02 15:04:05"),
	}
	if team != nil {
		view.TeamName = team.Name
		view.LogoURL = team.LogoURL
	}
	return view
}
