package model

// Team 球队主表（文章按球队聚合，名称唯一）
type Team struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;type:varchar(100);uniqueIndex;not null"` // 球队名称（唯一，匹配时不区分大小写）
	LogoURL string `gorm:"column:logo_url;type:varchar(255)"`                  // 队徽地址（可选）
}

func (Team) TableName() string { return "teams" }
