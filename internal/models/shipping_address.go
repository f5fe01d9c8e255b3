package models

import "time"

// ShippingAddress 收货地址表
type ShippingAddress struct {
	ID         uint      `gorm:"primarykey" json:"id"`                         // 主键
	UserID     uint      `gorm:"not null;index" json:"user_id"`                // 所属用户
	Street     string    `gorm:"type:varchar(255);not null" json:"street"`     // 街道
	City       string    `gorm:"type:varchar(100);not null" json:"city"`       // 城市
	State      string    `gorm:"type:varchar(100);not null" json:"state"`      // 州/省
	Country    string    `gorm:"type:varchar(100);not null" json:"country"`    // 国家
	PostalCode string    `gorm:"type:varchar(20);not null" json:"postal_code"` // 邮编
	Nickname   string    `gorm:"type:varchar(20)" json:"nickname"`             // 备注名
	CreatedAt  time.Time `json:"created_at"`                                   // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
