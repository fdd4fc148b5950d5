// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"
)

// FetchRemoteChain connects to a TLS endpoint, such as an SLCS server, and
// returns the chain it presents. The handshake does not verify the chain;
// pass the result to an [Evaluator] for that.
func FetchRemoteChain(ctx context.Context, hostname string, port int, timeout time.Duration, version string) (*Chain, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		// Only the presented certificates are wanted here.
		Config: &tls.Config{InsecureSkipVerify: true, ServerName: hostname},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(hostname, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", hostname, port, err)
	}
	defer conn.Close()

	peerCerts := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, fmt.Errorf("%w: %s:%d", ErrEmptyChain, hostname, port)
	}

	return New(version, peerCerts[0], peerCerts[1:]...), nil
}
