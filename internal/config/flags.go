// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses client configuration flags from args.
//
// Flags:
//
//	-a auth API base URL
//	-request-timeout request timeout (e.g., "15s")
//	-storage token store driver (sqlite, redis, memory)
//	-d sqlite DSN
//	-redis-address redis address in format [host]:[port]
//	-seal-key token seal secret
//	-refresh-interval profile refresh interval (e.g., "5m")
//	-metrics-address metrics listener in format [host]:[port]
//	-log-file client log file path
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	var apiAddress string
	var requestTimeout time.Duration
	var driver string
	var databaseDSN string
	var redisAddress NetAddress
	var sealKey string
	var refreshInterval time.Duration
	var metricsAddress NetAddress
	var logFile string
	var jsonConfigPath string

	fs.StringVar(&apiAddress, "a", "", "Auth API base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s, 1m)")
	fs.StringVar(&driver, "storage", "", "Token store driver: sqlite, redis, memory")
	fs.StringVar(&databaseDSN, "d", "", "SQLite DSN")
	fs.Var(&redisAddress, "redis-address", "Redis address host:port")
	fs.StringVar(&sealKey, "seal-key", "", "Token seal key")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Profile refresh interval (e.g., 5m)")
	fs.Var(&metricsAddress, "metrics-address", "Metrics address host:port")
	fs.StringVar(&logFile, "log-file", "", "Client log file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{TokenSealKey: sealKey},
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Driver: driver,
			DB:     DB{DSN: databaseDSN},
			Redis:  Redis{Address: redisAddress.String()},
		},
		Workers:      Workers{RefreshInterval: refreshInterval},
		Metrics:      Metrics{Address: metricsAddress.String()},
		Log:          Log{File: logFile},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
