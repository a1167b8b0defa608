package zookeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/rs/zerolog/log"
)

// Conn 封装 ZooKeeper 连接
type Conn struct {
	*zk.Conn
}

// Connect 建立连接并等待会话建立, 超时返回错误。
func Connect(ctx context.Context, servers []string, sessionTimeout time.Duration) (*Conn, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("zookeeper: no servers configured")
	}
	zlog := log.Logger.With().Str("component", "zookeeper").Logger()
	c, events, err := zk.Connect(servers, sessionTimeout, zk.WithLogger(&zlog))
	if err != nil {
		return nil, fmt.Errorf("zookeeper: connect %v: %w", servers, err)
	}

	for {
		select {
		case ev := <-events:
			if ev.State == zk.StateHasSession {
				return &Conn{Conn: c}, nil
			}
		case <-ctx.Done():
			c.Close()
			return nil, fmt.Errorf("zookeeper: waiting for session: %w", ctx.Err())
		}
	}
}

// Locker 用 ZooKeeper 临时顺序节点实现跨实例互斥。
type Locker struct {
	conn *Conn
}

func NewLocker(conn *Conn) *Locker {
	return &Locker{conn: conn}
}

// Acquire 阻塞直到获得 resource 上的锁, 返回释放函数。
func (l *Locker) Acquire(ctx context.Context, resource string) (func() error, error) {
	lock, err := NewDistributedLock(l.conn, resource)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	return lock.Unlock, nil
}
