package httpapi

import (
	"net/netip"
	"regexp"
)

// Boundary-level format checks. Provider id patterns and name bounds follow
// the EC2 conventions; violations get a 400 before any orchestration runs.
var (
	reInstanceID = regexp.MustCompile(`^i-[a-f0-9]{8,}$`)
	reAmiID      = regexp.MustCompile(`^ami-[a-f0-9]{8,}$`)
	reGroupID    = regexp.MustCompile(`^sg-[a-f0-9]{8,}$`)
	reKeyName    = regexp.MustCompile(`^[\w\-]{3,255}$`)
)

// validCIDR accepts only in-range IPv4 blocks.
func validCIDR(s string) bool {
	p, err := netip.ParsePrefix(s)
	return err == nil && p.Addr().Is4()
}

func validGroupName(name string) bool {
	return len(name) >= 2 && len(name) <= 255
}

func validPort(p int32) bool {
	return p >= 1 && p <= 65535
}
