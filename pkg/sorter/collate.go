package sorter

import (
	"encoding/hex"
	"net"
	"strings"
)

// keySafe guards against empty collation keys, which would break the
// space-delimited key column layout fed to sort(1).
func keySafe(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// CollateName turns a domain name into a byte-sortable key: labels are
// reversed so the TLD comes first, lowercased, and stripped to alphanumerics.
// The transform is lossy and one-way; it exists only to define sort order.
func CollateName(name string) string {
	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	var b strings.Builder
	for i := len(labels) - 1; i >= 0; i-- {
		for _, r := range strings.ToLower(labels[i]) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return keySafe(b.String())
}

// CollateRdata turns one rdata element into a byte-sortable key. Address
// types collate as fixed-width hex so numeric order matches byte order;
// name-valued types collate like owner names; everything else collates as
// the hex of its UTF-8 bytes.
func CollateRdata(rrtype, rdatum string) string {
	switch strings.ToUpper(rrtype) {
	case "A":
		return hexAddr(rdatum, 4)
	case "AAAA":
		return hexAddr(rdatum, 16)
	case "NS", "PTR", "CNAME", "DNAME":
		return CollateName(rdatum)
	case "MX", "RP":
		// Sort on the target name, which follows the last space. A value
		// with no space at all is not in the expected presentation form,
		// so it collates as raw hex instead.
		if i := strings.LastIndexByte(rdatum, ' '); i >= 0 {
			return CollateName(rdatum[i+1:])
		}
		return keySafe(hex.EncodeToString([]byte(rdatum)))
	default:
		return keySafe(hex.EncodeToString([]byte(rdatum)))
	}
}

// hexAddr renders an address as width bytes of hex. Unparseable addresses
// collate as all-zero bytes rather than failing the record.
func hexAddr(addr string, width int) string {
	buf := make([]byte, width)
	ip := net.ParseIP(addr)
	if ip != nil {
		if width == 4 {
			if v4 := ip.To4(); v4 != nil {
				copy(buf, v4)
			}
		} else if ip.To4() == nil {
			copy(buf, ip.To16())
		}
	}
	return hex.EncodeToString(buf)
}
