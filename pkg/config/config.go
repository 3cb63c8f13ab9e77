// Package config loads a nebula.SessionConfig from a YAML file or from
// environment variables, so callers never have to hand-assemble a
// SessionConfig in code unless they want to (spec.md's AMBIENT STACK
// "Configuration" section).
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nebula-contrib/nebula-go/pkg/nebula"
)

const (
	keyHosts                      = "hosts"
	keyUsername                   = "username"
	keyPassword                   = "password"
	keySpace                      = "space"
	keyBufSize                    = "buf_size"
	keyMaxBufSize                 = "max_buf_size"
	keyMaxParseResponseBytesCount = "max_parse_response_bytes_count"
	keyReadTimeoutMs              = "read_timeout_ms"
)

// LoadError wraps a configuration load or validation failure, naming
// the source (a file path, or "env") that produced it.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: load from %s: %s", e.Source, e.Cause)
}
func (e *LoadError) Unwrap() error { return e.Cause }

// Load reads a YAML file at path and builds a SessionConfig from it.
func Load(path string) (*nebula.SessionConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, &LoadError{Source: path, Cause: err}
	}
	return buildSessionConfig(k, path)
}

// LoadEnv builds a SessionConfig from environment variables prefixed by
// prefix, e.g. with prefix "NEBULA_", NEBULA_HOSTS, NEBULA_USERNAME,
// NEBULA_PASSWORD, NEBULA_SPACE, NEBULA_BUF_SIZE, NEBULA_MAX_BUF_SIZE,
// NEBULA_MAX_PARSE_RESPONSE_BYTES_COUNT, NEBULA_READ_TIMEOUT_MS.
// NEBULA_HOSTS is a comma-separated list of "host:port" pairs.
func LoadEnv(prefix string) (*nebula.SessionConfig, error) {
	k := koanf.New(".")
	transform := func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		return strings.ToLower(s)
	}
	if err := k.Load(env.Provider(prefix, ".", transform), nil); err != nil {
		return nil, &LoadError{Source: "env", Cause: err}
	}
	return buildSessionConfig(k, "env")
}

func buildSessionConfig(k *koanf.Koanf, source string) (*nebula.SessionConfig, error) {
	username := k.String(keyUsername)
	password := k.String(keyPassword)
	if username == "" {
		return nil, &LoadError{Source: source, Cause: fmt.Errorf("%s is required", keyUsername)}
	}

	hostAddrs, err := parseHosts(k.Strings(keyHosts))
	if err != nil {
		return nil, &LoadError{Source: source, Cause: err}
	}
	if len(hostAddrs) == 0 {
		return nil, &LoadError{Source: source, Cause: fmt.Errorf("%s is required", keyHosts)}
	}

	cfg := nebula.NewSessionConfig(hostAddrs, username, password)
	if space := k.String(keySpace); space != "" {
		cfg = cfg.WithSpace(space)
	}
	if v := k.Int(keyBufSize); v != 0 {
		cfg.BufSize = v
	}
	if v := k.Int(keyMaxBufSize); v != 0 {
		cfg.MaxBufSize = v
	}
	if v := k.Int(keyMaxParseResponseBytesCount); v != 0 {
		cfg.MaxParseResponseBytesCount = v
	}
	if v := k.Int(keyReadTimeoutMs); v != 0 {
		cfg.ReadTimeout = time.Duration(v) * time.Millisecond
	}
	return cfg, nil
}

// parseHosts accepts either a koanf-decoded YAML string list, or (from
// env.Provider, which has no native list type) a single
// comma-separated string.
func parseHosts(raw []string) ([]nebula.HostAddress, error) {
	var entries []string
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		entries = strings.Split(raw[0], ",")
	} else {
		entries = raw
	}

	out := make([]nebula.HostAddress, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		host, portStr, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("host entry %q must be host:port", entry)
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("host entry %q has invalid port: %w", entry, err)
		}
		out = append(out, nebula.NewHostAddress(host, uint16(port)))
	}
	return out, nil
}
