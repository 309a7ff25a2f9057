package chain

import (
	"ip-tracker/internal/localdb"
	"ip-tracker/internal/lookup"
)

// ChainCache：按顺序查询多个离线库，首个命中即返回；nil 项跳过
type ChainCache struct {
	list []localdb.Resolver
}

func NewChainCache(list ...localdb.Resolver) *ChainCache {
	return &ChainCache{list: list}
}

func (c *ChainCache) Lookup(ip string) (lookup.LocationRecord, bool) {
	for _, s := range c.list {
		if s == nil {
			continue
		}
		if l, ok := s.Lookup(ip); ok {
			return l, true
		}
	}
	return lookup.LocationRecord{}, false
}

// Len：非空数据源数量
func (c *ChainCache) Len() int {
	n := 0
	for _, s := range c.list {
		if s != nil {
			n++
		}
	}
	return n
}
