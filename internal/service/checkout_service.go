package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/events"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"

	"gorm.io/gorm"
)

// OrderEmailEnqueuer 下单确认邮件投递接口
type OrderEmailEnqueuer interface {
	EnqueueOrderConfirmationEmail(orderID uint) error
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID            uint
	SessionToken      string
	PaymentInfoID     uint
	ShippingAddressID uint
}

// CheckoutService 结算服务
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentInfoRepository
	addressRepo repository.ShippingAddressRepository
	enqueuer    OrderEmailEnqueuer
	publisher   events.Publisher
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentInfoRepository,
	addressRepo repository.ShippingAddressRepository,
	enqueuer OrderEmailEnqueuer,
	publisher events.Publisher,
) *CheckoutService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		addressRepo: addressRepo,
		enqueuer:    enqueuer,
		publisher:   publisher,
	}
}

// Checkout 将用户激活购物车转换为订单
//
// 校验、计价、落单、扣减库存与关闭购物车在同一事务内完成，任一步失败整体回滚。
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		cart, err := cartRepo.GetActiveByUser(input.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartEmpty
		}
		if err := s.checkPaymentAndShipping(tx, input); err != nil {
			return err
		}

		view, err := buildCartView(cartRepo, cart, input.SessionToken)
		if err != nil {
			return err
		}
		if len(view.Items) == 0 {
			return ErrCartEmpty
		}

		orderNo, err := generateOrderNo(time.Now())
		if err != nil {
			return err
		}
		now := time.Now()
		items := make([]models.OrderItem, 0, len(view.Items))
		for _, line := range view.Items {
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Quantity:    line.Quantity,
				Price:       line.UnitPrice,
			})
		}
		created := &models.Order{
			OrderNo:           orderNo,
			UserID:            input.UserID,
			TotalPrice:        view.Total,
			OrderStatus:       constants.OrderStatusPending,
			PaymentStatus:     constants.PaymentStatusSuccessful,
			PaymentInfoID:     input.PaymentInfoID,
			ShippingAddressID: input.ShippingAddressID,
			SessionToken:      input.SessionToken,
			OrderDatetime:     now,
			Items:             items,
		}
		if err := s.orderRepo.WithTx(tx).Create(created); err != nil {
			return fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
		}

		for _, line := range view.Items {
			affected, err := productRepo.DecrementStock(line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return insufficientStock(productRepo, line)
			}
		}

		if err := cartRepo.Deactivate(cart.ID); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			logger.Infow("checkout_stock_insufficient",
				"user_id", input.UserID,
				"product_id", stockErr.ProductID,
				"available", stockErr.Available,
			)
		}
		return nil, err
	}

	logger.Infow("checkout_completed", "order_id", order.ID, "order_no", order.OrderNo, "user_id", order.UserID, "total", order.TotalPrice.String())
	s.notify(ctx, order)
	return order, nil
}

func (s *CheckoutService) checkPaymentAndShipping(tx *gorm.DB, input CheckoutInput) error {
	if input.PaymentInfoID == 0 || input.ShippingAddressID == 0 {
		return ErrMissingPaymentOrShipping
	}
	payment, err := s.paymentRepo.WithTx(tx).GetByIDAndUser(input.PaymentInfoID, input.UserID)
	if err != nil {
		return err
	}
	address, err := s.addressRepo.WithTx(tx).GetByIDAndUser(input.ShippingAddressID, input.UserID)
	if err != nil {
		return err
	}
	if payment == nil || address == nil {
		return ErrMissingPaymentOrShipping
	}
	return nil
}

// notify 提交后投递邮件与事件，失败仅记录日志
func (s *CheckoutService) notify(ctx context.Context, order *models.Order) {
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderConfirmationEmail(order.ID); err != nil {
			logger.Warnw("order_enqueue_email_failed", "order_id", order.ID, "error", err)
		}
	}
	if err := s.publisher.PublishOrderCreated(ctx, events.NewOrderCreatedEvent(order)); err != nil {
		logger.Warnw("order_publish_event_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

func insufficientStock(repo repository.ProductRepository, line CartLine) error {
	available := 0
	product, err := repo.GetByID(line.ProductID)
	if err != nil {
		return err
	}
	if product != nil {
		available = product.Stock
	}
	if available < 0 {
		available = 0
	}
	return &InsufficientStockError{
		ProductID:   line.ProductID,
		ProductName: line.Name,
		Available:   available,
	}
}

// generateOrderNo 生成订单号：前缀 + 秒级时间戳 + 6 位随机数
func generateOrderNo(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%06d", constants.OrderNoPrefix, now.Format("20060102150405"), n.Int64()), nil
}
