package httpapi

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

const maxUserAgentLength = 512

// clientIPHeaders are consulted before the socket address, most specific
// proxy first.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIPResolver picks the caller address used for rate limiting and login
// audit. Proxy headers are honoured only when the socket peer is a trusted
// proxy; a nil resolver trusts no one.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver accepts CIDR ranges or single addresses.
func NewClientIPResolver(trustedProxies []string) (*ClientIPResolver, error) {
	resolver := &ClientIPResolver{}
	for _, raw := range trustedProxies {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(value); err == nil {
			resolver.trusted = append(resolver.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", value)
		}
		addr = addr.Unmap()
		resolver.trusted = append(resolver.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return resolver, nil
}

// Resolve returns the socket address unless it belongs to a trusted proxy, in
// which case the first forwarded hop wins.
func (c *ClientIPResolver) Resolve(r *http.Request) string {
	peer, ok := socketAddr(r.RemoteAddr)
	if ok && c.trusts(peer) {
		for _, name := range clientIPHeaders {
			first, _, _ := strings.Cut(r.Header.Get(name), ",")
			if addr, ok := parseAddr(first); ok {
				return addr.String()
			}
		}
	}
	if !ok {
		return "unknown"
	}
	return peer.String()
}

func (c *ClientIPResolver) trusts(addr netip.Addr) bool {
	if c == nil {
		return false
	}
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func socketAddr(remote string) (netip.Addr, bool) {
	if addrPort, err := netip.ParseAddrPort(remote); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	return parseAddr(remote)
}

func parseAddr(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// clientIP prefers the address RequestMeta already resolved.
func clientIP(r *http.Request) string {
	if meta, ok := usecase.LookupRequestMeta(r.Context()); ok && meta.IPAddress != "" {
		return meta.IPAddress
	}
	return (*ClientIPResolver)(nil).Resolve(r)
}

func resolveUserAgent(r *http.Request) string {
	agent := strings.TrimSpace(r.UserAgent())
	switch {
	case agent == "":
		return "unknown"
	case len(agent) > maxUserAgentLength:
		return agent[:maxUserAgentLength]
	default:
		return agent
	}
}
