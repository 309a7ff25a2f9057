package localdb

import (
	"context"
	"errors"
	"fmt"
	"net"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/query"
)

// HostResolver：域名解析接口，*net.Resolver 满足该接口
type HostResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Service：把离线 Resolver 适配为 lookup.Service
// 约束：域名先解析为首个 IPv4 再查库；未命中与远程服务一样返回 code 400
type Service struct {
	r   Resolver
	dns HostResolver
}

func NewService(r Resolver, dns HostResolver) *Service {
	if dns == nil {
		dns = net.DefaultResolver
	}
	return &Service{r: r, dns: dns}
}

func (s *Service) Lookup(ctx context.Context, q query.LookupQuery) (*lookup.LocationRecord, error) {
	var ip string
	switch q.Kind {
	case query.IPv4:
		ip = q.Value
	case query.Domain:
		addrs, err := s.dns.LookupIP(ctx, "ip4", q.Value)
		if err != nil {
			var de *net.DNSError
			if errors.As(err, &de) && de.IsNotFound {
				return nil, &lookup.RejectedError{Code: 400, Messages: "domain does not resolve"}
			}
			return nil, fmt.Errorf("%w: resolve %s: %v", lookup.ErrRequestFailed, q.Value, err)
		}
		if len(addrs) == 0 {
			return nil, &lookup.RejectedError{Code: 400, Messages: "domain has no ipv4 address"}
		}
		ip = addrs[0].String()
	default:
		return nil, &lookup.RejectedError{Code: 400, Messages: "no address to resolve"}
	}
	rec, ok := s.r.Lookup(ip)
	if !ok {
		logger.L().Debug("localdb_miss", "ip", ip, "kind", q.Kind.String())
		return nil, &lookup.RejectedError{Code: 400, Messages: "address not found in local database"}
	}
	rec.IP = ip
	logger.L().Debug("localdb_hit", "ip", ip, "city", rec.Location.City, "isp", rec.ISP)
	return &rec, nil
}
