package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"TeamNewsSync/internal/config"
	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client OpenAI chat completions客户端，承担球队分类与文章合成两类调用。
// 调用失败或返回脏数据都以error上抛，确定性兜底由上层service负责。
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.OpenAIConfig, logger *logrus.Logger) interfaces.AIClient {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpclient.NewHTTPClient(cfg.Timeout, cfg.Proxy, logger),
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ClassifyTeam 让模型在候选球队中选出条目所属球队，无匹配时返回空串
func (c *Client) ClassifyTeam(ctx context.Context, entryText string, teamNames []string) (string, error) {
	prompt := fmt.Sprintf(
		"你是一名体育新闻助手，负责把一条新闻归到以下球队之一：%s。\n"+
			"阅读这条新闻：\n%s\n\n"+
			"只回答所属球队的名称；若与所有球队都无关，回答 None。",
		strings.Join(teamNames, "、"), entryText,
	)

	answer, err := c.chat(ctx, prompt, 0.0, 16)
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "none") {
		return "", nil
	}
	return answer, nil
}

type synthesisResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SynthesizeArticle 基于已有正文（可为空）与新素材合成文章。
// priorContent非空时要求模型在保留已有信息的前提下融合新内容。
func (c *Client) SynthesizeArticle(ctx context.Context, priorContent string, items []interfaces.NewsItem) (string, string, error) {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("标题：%s\n正文：%s\n\n", item.Title, item.Content))
	}

	var prompt string
	if priorContent == "" {
		prompt = fmt.Sprintf(
			"你是一名资深体育转会新闻记者。\n"+
				"请只依据下列新闻素材撰写一篇原创、详实的文章，重新组织信息而非简单罗列。\n"+
				"素材：\n%s\n"+
				"以JSON格式回答，包含两个字段：title、content。",
			sb.String(),
		)
	} else {
		prompt = fmt.Sprintf(
			"你是一名资深体育转会新闻记者。\n"+
				"请把新的新闻素材融入这篇已有文章，保留并在必要时更新文中已有的全部有效信息，不得丢失。\n"+
				"已有文章：\n%s\n\n"+
				"新素材：\n%s\n"+
				"以JSON格式回答，包含更新后的title和content两个字段。",
			priorContent, sb.String(),
		)
	}

	answer, err := c.chat(ctx, prompt, 0.7, 2000)
	if err != nil {
		return "", "", err
	}

	var result synthesisResult
	if err := json.Unmarshal([]byte(extractJSON(answer)), &result); err != nil {
		return "", "", fmt.Errorf("解析合成结果JSON失败: %w", err)
	}
	if result.Title == "" && result.Content == "" {
		return "", "", fmt.Errorf("合成结果缺少title与content字段")
	}
	return result.Title, result.Content, nil
}

// chat 发起一次chat completions调用，返回首个choice的文本
func (c *Client) chat(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API Key未配置")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("序列化请求体失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用OpenAI接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("OpenAI接口返回%s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("响应不含choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON 剥掉模型偶尔带上的markdown围栏等包装，取最外层大括号之间的内容
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
