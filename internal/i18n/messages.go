package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                 "Invalid request parameters",
		"error.unauthorized":                "Please log in first",
		"error.token_invalid":               "Login expired, please log in again",
		"error.forbidden":                   "You do not have permission to perform this action",
		"error.not_found":                   "Resource not found",
		"error.internal":                    "Internal server error",
		"error.too_many_requests":           "Too many requests, please try again later",
		"error.product_not_found":           "Product not found",
		"error.user_not_found":              "User not found",
		"error.order_not_found":             "Order not found",
		"error.address_not_found":           "Shipping address not found",
		"error.payment_not_found":           "Payment method not found",
		"error.cart_empty":                  "Your cart is empty",
		"error.invalid_quantity":            "Quantity must be a positive number",
		"error.missing_payment_or_shipping": "Please update your payment and shipping information before checkout.",
		"error.insufficient_stock":          "Not enough stock for %s. Only %d left.",
		"error.decryption_failed":           "Stored payment data could not be read",
		"error.invalid_credentials":         "Invalid username or password",
		"error.username_exists":             "Username is already taken",
		"error.email_exists":                "Email is already registered",
		"error.email_invalid":               "Invalid email address",
		"error.username_invalid":            "Username must be 3-50 characters of letters, digits, _ or -",
		"error.password_weak":               "Password does not meet the policy",
		"error.password_min_length":         "Password must be at least %d characters",
		"error.password_max_length":         "Password must be at most %d bytes",
		"error.password_require_upper":      "Password must contain an uppercase letter",
		"error.password_require_lower":      "Password must contain a lowercase letter",
		"error.password_require_number":     "Password must contain a digit",
		"error.password_require_special":    "Password must contain a special character",
		"error.invalid_payment_info":        "Invalid payment information",
		"error.invalid_shipping_address":    "Invalid shipping address",
		"error.invalid_role":                "Invalid role",
		"error.captcha_required":            "Please complete the captcha",
		"error.captcha_invalid":             "Captcha is incorrect or expired",
		"error.captcha_disabled":            "Captcha is not enabled",
		"error.order_create_failed":         "Failed to create order",
		"error.product_invalid":             "Invalid product data",
		"error.login_too_many":              "Too many login attempts, please retry in %d seconds",
		"error.email_unavailable":           "Email service is unavailable",
		"email.order_confirmation.subject":  "Order %s confirmed",
		"email.order_confirmation.greeting": "Hi %s,",
		"email.order_confirmation.intro":    "Thank you for your order. Here is your summary:",
		"email.order_confirmation.line":     "- %s x %d @ %s = %s",
		"email.order_confirmation.total":    "Total: %s",
	},
	LocaleZH: {
		"error.bad_request":                 "请求参数错误",
		"error.unauthorized":                "请先登录",
		"error.token_invalid":               "登录已失效，请重新登录",
		"error.forbidden":                   "无权执行该操作",
		"error.not_found":                   "资源不存在",
		"error.internal":                    "服务器内部错误",
		"error.too_many_requests":           "请求过于频繁，请稍后再试",
		"error.product_not_found":           "商品不存在",
		"error.user_not_found":              "用户不存在",
		"error.order_not_found":             "订单不存在",
		"error.address_not_found":           "收货地址不存在",
		"error.payment_not_found":           "支付方式不存在",
		"error.cart_empty":                  "购物车为空",
		"error.invalid_quantity":            "数量必须为正整数",
		"error.missing_payment_or_shipping": "请先完善支付方式与收货地址后再结算。",
		"error.insufficient_stock":          "%s 库存不足，仅剩 %d 件。",
		"error.decryption_failed":           "支付信息读取失败",
		"error.invalid_credentials":         "用户名或密码错误",
		"error.username_exists":             "用户名已被占用",
		"error.email_exists":                "邮箱已注册",
		"error.email_invalid":               "邮箱格式不正确",
		"error.username_invalid":            "用户名需为 3-50 位字母、数字、下划线或短横线",
		"error.password_weak":               "密码不符合安全策略",
		"error.password_min_length":         "密码长度至少 %d 位",
		"error.password_max_length":         "密码长度不能超过 %d 字节",
		"error.password_require_upper":      "密码需包含大写字母",
		"error.password_require_lower":      "密码需包含小写字母",
		"error.password_require_number":     "密码需包含数字",
		"error.password_require_special":    "密码需包含特殊字符",
		"error.invalid_payment_info":        "支付信息不合法",
		"error.invalid_shipping_address":    "收货地址不合法",
		"error.invalid_role":                "角色不合法",
		"error.captcha_required":            "请完成验证码",
		"error.captcha_invalid":             "验证码错误或已过期",
		"error.captcha_disabled":            "验证码未启用",
		"error.order_create_failed":         "订单创建失败",
		"error.product_invalid":             "商品信息不合法",
		"error.login_too_many":              "登录尝试过多，请 %d 秒后再试",
		"error.email_unavailable":           "邮件服务不可用",
		"email.order_confirmation.subject":  "订单 %s 已确认",
		"email.order_confirmation.greeting": "%s，您好：",
		"email.order_confirmation.intro":    "感谢您的购买，订单明细如下：",
		"email.order_confirmation.line":     "- %s x %d @ %s = %s",
		"email.order_confirmation.total":    "合计：%s",
	},
}
