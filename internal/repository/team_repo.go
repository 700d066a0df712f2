package repository

import (
	"context"
	"errors"
	"fmt"

	"TeamNewsSync/internal/interfaces"
	"TeamNewsSync/internal/model"

	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) interfaces.TeamRepository {
	return &TeamRepository{db: db}
}

// ListTeams 按ID升序返回全部球队（分类与成稿都按此稳定顺序遍历）
func (r *TeamRepository) ListTeams(ctx context.Context) ([]*model.Team, error) {
	var teams []*model.Team
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("查询球队列表失败: %w", err)
	}
	return teams, nil
}

// GetTeamByName 按名称查找球队（不区分大小写），未找到返回nil
func (r *TeamRepository) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询球队%s失败: %w", name, err)
	}
	return &team, nil
}

// SeedTeams 初始化球队列表（按名称判重，已存在则跳过）
func (r *TeamRepository) SeedTeams(ctx context.Context, seeds []*model.Team) error {
	for _, seed := range seeds {
		existing, err := r.GetTeamByName(ctx, seed.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := r.db.WithContext(ctx).Create(seed).Error; err != nil {
			return fmt.Errorf("初始化球队%s失败: %w", seed.Name, err)
		}
	}
	return nil
}
