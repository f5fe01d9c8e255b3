package models

import "time"

// Cart 购物车表
//
// ActiveOwner 仅在购物车处于激活状态时等于 UserID，失活后置空；
// 借助其唯一索引保证每个用户至多一个激活购物车。
type Cart struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                 // 主键
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`                       // 用户ID
	SessionToken string    `gorm:"type:varchar(64);not null;index" json:"session_token"` // 创建时的会话 token
	IsActive     bool      `gorm:"not null;index" json:"is_active"`                      // 是否激活
	ActiveOwner  *uint     `gorm:"uniqueIndex:idx_carts_active_owner" json:"-"`          // 激活购物车唯一约束
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                           // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
