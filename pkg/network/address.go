package network

import (
	"errors"
	"strconv"
	"strings"
)

type Address string

// Port extracts the port number of an address.
// A value without the colon separator is treated as a bare port.
func (a Address) Port() (int, error) {
	if len(string(a)) == 0 {
		return 0, errors.New("no address")
	}
	parts := strings.Split(string(a), ":")
	port := parts[len(parts)-1]
	if val, err := strconv.Atoi(port); err == nil {
		return val, nil
	}
	return 0, errors.New("port is not a number")
}

// Host returns the host part of an address or an empty string.
func (a Address) Host() string {
	idx := strings.LastIndex(string(a), ":")
	if idx < 0 {
		return string(a)
	}
	return string(a)[:idx]
}
