package nebula

import (
	"sync/atomic"
	"time"
)

// SessionConfig is the ambient configuration layer every session
// acquisition reads from (spec.md §3 "SessionConfig", §6 "Configuration
// knobs"). Grounded on single_conn_session_manager.rs's
// SingleConnSessionConf, with host_idx made an atomic counter so
// GetNextAddr is safe to call from concurrent pool acquirers.
type SessionConfig struct {
	HostAddrs []HostAddress
	hostIdx   uint64

	Username string
	Password string

	// Space is the default space to USE after authenticating. nil means
	// the caller must issue USE manually.
	Space *string

	BufSize                    int
	MaxBufSize                 int
	MaxParseResponseBytesCount int
	ReadTimeout                time.Duration
}

// NewSessionConfig builds a SessionConfig for a set of graphd hosts.
func NewSessionConfig(hostAddrs []HostAddress, username, password string) *SessionConfig {
	return &SessionConfig{
		HostAddrs: hostAddrs,
		Username:  username,
		Password:  password,
	}
}

// WithSpace sets the default space executed via USE after authenticate.
func (c *SessionConfig) WithSpace(space string) *SessionConfig {
	c.Space = &space
	return c
}

// GetNextAddr returns the next host in round-robin order across
// concurrent callers (spec.md §4.6 "host selection").
func (c *SessionConfig) GetNextAddr() HostAddress {
	idx := atomic.AddUint64(&c.hostIdx, 1) - 1
	return c.HostAddrs[idx%uint64(len(c.HostAddrs))]
}
