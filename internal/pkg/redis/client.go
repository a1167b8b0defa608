// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client 封装了 go-redis 的 UniversalClient, 单机与集群地址使用同一套代码。
// 同时维护一个 Lua 脚本注册表, 脚本按名字加载、按名字执行。
type Client struct {
	client  redis.UniversalClient
	scripts map[string]*redis.Script
	mu      sync.RWMutex
}

// NewClient 根据地址列表创建客户端; 多个地址时自动使用集群模式。
func NewClient(ctx context.Context, addrs []string, password string) (*Client, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis: no address configured")
	}
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    addrs,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %v: %w", addrs, err)
	}
	return Wrap(rdb), nil
}

// Wrap 包装一个已有的客户端 (测试中配合 miniredis 使用)。
func Wrap(rdb redis.UniversalClient) *Client {
	return &Client{client: rdb, scripts: make(map[string]*redis.Script)}
}

// GetClient 返回底层客户端, 用于 pipeline 等原生操作。
func (c *Client) GetClient() redis.UniversalClient {
	return c.client
}

// LoadScriptFromContent 注册一个 Lua 脚本。
func (c *Client) LoadScriptFromContent(name, src string) error {
	if src == "" {
		return fmt.Errorf("redis: empty script %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scripts[name] = redis.NewScript(src)
	return nil
}

// RunScript 执行已注册的脚本。Script.Run 会优先使用 EVALSHA, 未缓存时回退到 EVAL。
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.mu.RLock()
	script, ok := c.scripts[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("redis: script %q not loaded", name)
	}
	return script.Run(ctx, c.client, keys, args...).Result()
}

func (c *Client) Close() error {
	return c.client.Close()
}
