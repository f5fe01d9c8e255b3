package models

import "time"

// OrderItem 订单项表（冻结下单时的商品名称与单价）
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                               // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                     // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`                   // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`     // 商品名称快照
	Quantity    int       `gorm:"not null" json:"quantity"`                           // 数量
	Price       Money     `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // 单价快照
	CreatedAt   time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 返回单价 * 数量
func (i OrderItem) LineTotal() Money {
	return i.Price.MulInt(i.Quantity)
}
