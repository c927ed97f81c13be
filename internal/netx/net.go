// Package netx finds the address other devices on the LAN can use to reach
// this host.
package netx

import (
	"errors"
	"net"
	"strconv"
)

// ErrNoLANAddress is returned when no usable IPv4 interface address exists.
var ErrNoLANAddress = errors.New("no LAN address found")

// interfaceAddrs is a seam for tests.
var interfaceAddrs = net.InterfaceAddrs

// LANAddress returns the first private (RFC 1918) IPv4 address of this host,
// falling back to any global unicast IPv4 address.
func LANAddress() (net.IP, error) {
	addrs, err := interfaceAddrs()
	if err != nil {
		return nil, err
	}

	var fallback net.IP
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		if ip.IsPrivate() {
			return ip, nil
		}
		if fallback == nil && ip.IsGlobalUnicast() {
			fallback = ip
		}
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoLANAddress
}

// ShareURL builds the http:// URL for listenAddr (":8501", "0.0.0.0:8501",
// "192.168.1.5:9000") as seen from the LAN. An explicit non-wildcard host in
// listenAddr wins over the detected address. It returns "" when neither is
// known.
func ShareURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return ""
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		lan, err := LANAddress()
		if err != nil {
			return ""
		}
		host = lan.String()
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ""
	}
	return "http://" + net.JoinHostPort(host, port)
}
