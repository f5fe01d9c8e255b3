package models

import "time"

// PaymentInfo 用户支付方式表（卡号与 CVV 仅保存密文）
type PaymentInfo struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                  // 主键
	UserID           uint      `gorm:"not null;index" json:"user_id"`                         // 所属用户
	PaymentMethod    string    `gorm:"type:varchar(20);not null" json:"payment_method"`       // 支付方式（debit/credit）
	CardType         string    `gorm:"type:varchar(20);not null" json:"card_type"`            // 卡组织（visa/mastercard）
	CardNumberCipher string    `gorm:"type:varchar(255);not null" json:"-"`                   // 卡号密文
	CardLast4        string    `gorm:"type:varchar(4);not null;default:''" json:"card_last4"` // 卡号后四位
	CVVCipher        string    `gorm:"type:varchar(255);not null" json:"-"`                   // CVV 密文
	Nickname         string    `gorm:"type:varchar(45)" json:"nickname"`                      // 备注名
	CreatedAt        time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt        time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (PaymentInfo) TableName() string {
	return "payment_infos"
}
