// Package search 维护商品的 Elasticsearch 索引并提供关键字检索。
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"

	"github.com/elastic/go-elasticsearch/v9"
)

// ProductDocument 索引中的商品文档
type ProductDocument struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsActive    bool   `json:"is_active"`
}

// NewProductDocument 由商品模型构建文档
func NewProductDocument(product *models.Product) ProductDocument {
	return ProductDocument{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.String(),
		IsActive:    product.IsActive,
	}
}

// Client 商品搜索客户端
type Client struct {
	es    *elasticsearch.Client
	index string
}

// NewClient 连接 Elasticsearch；未启用时返回 nil
func NewClient(cfg config.SearchConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{strings.TrimSpace(cfg.URL)},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client failed: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("search: info request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: info returned %s: %s", res.Status(), body)
	}
	logger.Infow("search_connected", "url", cfg.URL, "index", cfg.Index)

	index := strings.TrimSpace(cfg.Index)
	if index == "" {
		index = "products"
	}
	return &Client{es: es, index: index}, nil
}

// IndexProduct 写入或覆盖商品文档
func (c *Client) IndexProduct(ctx context.Context, doc ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := c.es.Index(
		c.index,
		bytes.NewReader(body),
		c.es.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index returned %s", res.Status())
	}
	return nil
}

// SearchProductIDs 按关键字检索上架商品，返回命中总数与按相关度排序的商品 ID
func (c *Client) SearchProductIDs(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildProductQuery(query, from, size)); err != nil {
		return 0, nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: returned %s", res.Status())
	}
	return parseProductHits(res.Body)
}

func buildProductQuery(query string, from, size int) map[string]interface{} {
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = 20
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_active": true},
				},
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}
}

func parseProductHits(body io.Reader) (int64, []uint, error) {
	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response failed: %w", err)
	}
	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		if hit.Source.ID != 0 {
			ids = append(ids, hit.Source.ID)
		}
	}
	return r.Hits.Total.Value, ids, nil
}
