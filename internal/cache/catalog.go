package cache

import "fmt"

// ProductDetailKey 商品详情缓存 key
func ProductDetailKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}
