package service

import (
	"time"

	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
)

// OrderService 订单查询服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// OrderItemView 订单项视图
type OrderItemView struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	Price       models.Money `json:"price"`
	LineTotal   models.Money `json:"line_total"`
}

// OrderView 订单视图
type OrderView struct {
	ID                uint            `json:"id"`
	OrderNo           string          `json:"order_no"`
	TotalPrice        models.Money    `json:"total_price"`
	OrderStatus       string          `json:"order_status"`
	PaymentStatus     string          `json:"payment_status"`
	PaymentInfoID     uint            `json:"payment_info_id"`
	ShippingAddressID uint            `json:"shipping_address_id"`
	OrderDatetime     time.Time       `json:"order_datetime"`
	Items             []OrderItemView `json:"items"`
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]OrderView, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
	if err != nil {
		return nil, 0, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(&orders[i]))
	}
	return views, total, nil
}

// GetByIDAndUser 获取用户自己的订单
func (s *OrderService) GetByIDAndUser(id, userID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := NewOrderView(order)
	return &view, nil
}

// NewOrderView 由订单快照构建视图
func NewOrderView(order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		})
	}
	return OrderView{
		ID:                order.ID,
		OrderNo:           order.OrderNo,
		TotalPrice:        order.TotalPrice,
		OrderStatus:       order.OrderStatus,
		PaymentStatus:     order.PaymentStatus,
		PaymentInfoID:     order.PaymentInfoID,
		ShippingAddressID: order.ShippingAddressID,
		OrderDatetime:     order.OrderDatetime,
		Items:             items,
	}
}
