// Package discovery centralizes internal service-discovery conventions.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceLeaderboard is the dashboard HTTP service identity.
	ServiceLeaderboard = "leaderboard"
	// ServiceUserStats is the users API identity (HTTP API + gRPC health).
	ServiceUserStats = "userstats"
	// ServiceJaeger is the jaeger HTTP service identity.
	ServiceJaeger = "jaeger"
)

var grpcPorts = map[string]int{
	ServiceUserStats: 8096,
}

var httpPorts = map[string]int{
	ServiceLeaderboard: 8080,
	ServiceUserStats:   8095,
	ServiceJaeger:      16686,
}

// DefaultGRPCAddr returns the canonical in-network gRPC address for a service.
func DefaultGRPCAddr(service string) string {
	return defaultAddr(strings.TrimSpace(service), grpcPorts)
}

// DefaultHTTPAddr returns the canonical in-network HTTP address for a service.
func DefaultHTTPAddr(service string) string {
	return defaultAddr(strings.TrimSpace(service), httpPorts)
}

// DefaultGRPCPort returns the canonical gRPC port for a service, or 0.
func DefaultGRPCPort(service string) int {
	return grpcPorts[strings.TrimSpace(service)]
}

// DefaultHTTPPort returns the canonical HTTP port for a service, or 0.
func DefaultHTTPPort(service string) int {
	return httpPorts[strings.TrimSpace(service)]
}

// OrDefaultHTTPBaseURL returns value when set, otherwise http://<service-host:port>.
// A trailing slash on value is dropped so callers can append paths directly.
func OrDefaultHTTPBaseURL(value, service string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value != "" {
		return value
	}
	addr := DefaultHTTPAddr(service)
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

func defaultAddr(service string, ports map[string]int) string {
	port, ok := ports[service]
	if !ok || port <= 0 {
		return ""
	}
	return service + ":" + strconv.Itoa(port)
}
