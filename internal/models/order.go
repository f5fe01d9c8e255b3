package models

import "time"

// Order 订单表（创建后不可变）
type Order struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderNo           string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`    // 订单编号
	UserID            uint      `gorm:"index;not null" json:"user_id"`                            // 用户ID
	TotalPrice        Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"` // 订单总额
	OrderStatus       string    `gorm:"type:varchar(20);index;not null" json:"order_status"`      // 订单状态
	PaymentStatus     string    `gorm:"type:varchar(20);not null" json:"payment_status"`          // 支付状态
	PaymentInfoID     uint      `gorm:"index;not null" json:"payment_info_id"`                    // 支付方式ID
	ShippingAddressID uint      `gorm:"index;not null" json:"shipping_address_id"`                // 收货地址ID
	SessionToken      string    `gorm:"type:varchar(64);index" json:"-"`                          // 下单会话
	OrderDatetime     time.Time `gorm:"index;not null" json:"order_datetime"`                     // 下单时间
	CreatedAt         time.Time `json:"created_at"`                                               // 创建时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
