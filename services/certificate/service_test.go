package certificate

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	er "github.com/certwatch/certwatch/internal/errors"
)

func TestProbe_ReturnsValidityWindow(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	inspector := NewCertificateService(5 * time.Second)

	info, err := inspector.Probe(context.Background(), ts.Listener.Addr().String())
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.True(t, info.ValidFrom.Before(info.ValidTo))
	assert.NotEmpty(t, info.Issuer)
}

func TestProbe_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing is listening on
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	inspector := NewCertificateService(5 * time.Second)

	info, err := inspector.Probe(context.Background(), addr)
	assert.Nil(t, info)
	require.Error(t, err)

	var sslErr *er.SSLCheckError
	require.ErrorAs(t, err, &sslErr)
	assert.Equal(t, addr, sslErr.Host)
	assert.Error(t, sslErr.Unwrap())
}

func TestProbe_HardTimeout(t *testing.T) {
	// Accepts TCP connections but never completes a TLS handshake
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	inspector := NewCertificateService(200 * time.Millisecond)

	start := time.Now()
	info, err := inspector.Probe(context.Background(), l.Addr().String())
	elapsed := time.Since(start)

	assert.Nil(t, info)
	require.Error(t, err)

	var sslErr *er.SSLCheckError
	require.ErrorAs(t, err, &sslErr)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestProbe_ContextCancelled(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inspector := NewCertificateService(5 * time.Second)

	info, err := inspector.Probe(ctx, l.Addr().String())
	assert.Nil(t, info)
	require.Error(t, err)
}

func TestHostPort(t *testing.T) {
	assert.Equal(t, "example.com:443", hostPort("example.com"))
	assert.Equal(t, "example.com:8443", hostPort("example.com:8443"))
	assert.Equal(t, "127.0.0.1:9000", hostPort("127.0.0.1:9000"))
}
