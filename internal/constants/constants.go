package constants

// 用户角色常量
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// 订单状态常量
const (
	OrderStatusPending = "Pending"
)

// 支付状态常量
const (
	PaymentStatusSuccessful = "Successful"
)

// 支付方式常量
const (
	PaymentMethodDebit  = "debit"
	PaymentMethodCredit = "credit"
)

// 卡组织常量
const (
	CardTypeVisa       = "visa"
	CardTypeMastercard = "mastercard"
)

// 订单号前缀
const OrderNoPrefix = "SF"

// 队列与任务常量
const (
	QueueDefault               = "default"
	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskProductIndexSync       = "catalog:product_index_sync"
)
