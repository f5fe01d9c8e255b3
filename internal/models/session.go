package models

import "time"

// Session 浏览会话表（以 cookie 中的 token 为主键）
type Session struct {
	Token          string    `gorm:"primarykey;type:varchar(64)" json:"token"` // 会话 token
	UserID         *uint     `gorm:"index" json:"user_id,omitempty"`           // 关联用户（匿名为空）
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`               // 创建时间
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`         // 最近活跃时间
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}
