// Package ntrans provides the binary-framed transport shared by the
// graph, meta, and storage service clients. spec.md §1 treats the wire
// codec as an external collaborator; design note §9 ("Transport
// genericity") asks for a single minimal Transport interface instead of
// letting a framing type leak upward. This is built on the real Apache
// Thrift Go runtime (github.com/apache/thrift), the closest ecosystem
// equivalent to the rust client's fbthrift_transport collaborator.
package ntrans

import (
	"context"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
)

// Options carries the buffer/timeout knobs from spec.md §3 SessionConfig
// and §6 "Configuration knobs" through to the underlying thrift transport.
// Dial applies BufSize, MaxParseResponseBytesCount and ReadTimeout;
// MaxBufSize is accepted but not applied.
type Options struct {
	BufSize                    int
	MaxBufSize                 int
	MaxParseResponseBytesCount int
	ReadTimeout                time.Duration
}

// Transport is the minimal capability set a service client needs:
// issue a request, read back a response, adjust the read deadline, and
// close. It exists so pkg/graph, pkg/meta, and pkg/storage never need to
// know that the wire format is Thrift binary protocol over TCP.
type Transport interface {
	// Protocol returns the thrift protocol bound to this connection, for
	// use by generated-style Write/Read methods on request/response
	// structs.
	Protocol() thrift.TProtocol
	SetReadTimeout(d time.Duration) error
	Close() error
}

type thriftTransport struct {
	socket    *thrift.TSocket
	buffered  thrift.TTransport
	protocol  thrift.TProtocol
}

// Dial opens a TCP connection to addr and wraps it in a buffered,
// binary-protocol thrift transport tuned by opts.
func Dial(ctx context.Context, addr string, opts Options) (Transport, error) {
	socket := thrift.NewTSocketConf(addr, &thrift.TConfiguration{
		ConnectTimeout: 0,
		SocketTimeout:  opts.ReadTimeout,
	})
	if err := socket.Open(); err != nil {
		return nil, err
	}

	bufSize := opts.BufSize
	if bufSize <= 0 {
		bufSize = 128 * 1024
	}
	factory := thrift.NewTBufferedTransportFactory(bufSize)
	buffered, err := factory.GetTransport(socket)
	if err != nil {
		socket.Close()
		return nil, err
	}

	protoFactory := thrift.NewTBinaryProtocolFactoryConf(&thrift.TConfiguration{
		MaxMessageSize: int32(opts.MaxParseResponseBytesCount),
	})
	protocol := protoFactory.GetProtocol(buffered)

	return &thriftTransport{
		socket:   socket,
		buffered: buffered,
		protocol: protocol,
	}, nil
}

func (t *thriftTransport) Protocol() thrift.TProtocol { return t.protocol }

func (t *thriftTransport) SetReadTimeout(d time.Duration) error {
	return t.socket.SetSocketTimeout(d)
}

func (t *thriftTransport) Close() error {
	return t.buffered.Close()
}

// IsBrokenPipe reports whether err signals that the remote end closed the
// connection out from under a write, the only transport-level signal
// spec.md §5/§7 says flips a session's close-required flag.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return isBrokenPipeErr(err)
}
