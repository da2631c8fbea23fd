package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Catalog 保存可构造类型的描述符，是容器的类型自省来源。
// 一个 Catalog 可以被多个容器共享，Container.Reset 不会清空它。
type Catalog struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]*Descriptor
}

// NewCatalog 创建一个空目录。
func NewCatalog() *Catalog {
	return &Catalog{
		descriptors: make(map[reflect.Type]*Descriptor),
	}
}

// Add 注册描述符。同一类型只能注册一次。
func (c *Catalog) Add(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("di: descriptor is nil")
	}
	if err := d.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[d.Type]; exists {
		return fmt.Errorf("di: type %v already described", d.Type)
	}
	c.descriptors[d.Type] = d
	return nil
}

// Lookup 返回类型的描述符。
func (c *Catalog) Lookup(t reflect.Type) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.descriptors[t]
	return d, ok
}

// Len 返回已注册的描述符数量。
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descriptors)
}
