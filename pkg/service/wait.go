package service

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hostplan/hostplan/pkg/util"
)

// WaitReady polls a TCP connect to addr:port once per second until the
// port accepts or timeout elapses, and reports which happened. An open
// port does not guarantee the service behind it is ready; it only
// bounds how much earlier a caller can proceed.
func WaitReady(addr string, port int, timeout time.Duration) (bool, error) {
	if !util.IsValidIP(addr) {
		return false, util.NewInvalidAddressError("service address", addr)
	}
	if port < 1 || port > 65535 {
		return false, fmt.Errorf("invalid port %d", port)
	}

	target := net.JoinHostPort(addr, strconv.Itoa(port))
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", target, 1*time.Second)
		if err == nil {
			conn.Close()
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
		time.Sleep(1 * time.Second)
	}
}
