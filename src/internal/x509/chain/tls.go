// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
)

var errNoServerName = errors.New("x509chain: no server name to verify")

// TLSConfig returns a client configuration that accepts a server when the
// evaluator trusts its chain and the leaf matches the server name. An
// empty serverName falls back to the SNI host name, so dialing an IP
// address needs an explicit serverName.
//
// clientCert, when set, is presented for client authentication.
func (e *Evaluator) TLSConfig(serverName string, clientCert ...tls.Certificate) *tls.Config {
	return &tls.Config{
		ServerName:   serverName,
		MinVersion:   tls.VersionTLS12,
		Certificates: clientCert,
		// Chain and hostname checks run in VerifyConnection.
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			if err := e.CheckServerTrusted(cs.PeerCertificates); err != nil {
				return err
			}
			name := serverName
			if name == "" {
				name = cs.ServerName
			}
			if name == "" {
				return errNoServerName
			}
			return cs.PeerCertificates[0].VerifyHostname(name)
		},
	}
}

// ServerTLSConfig returns a server configuration that requires client
// certificates accepted by the delegate.
func (e *Evaluator) ServerTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAnyClientCert,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			chain := make([]*x509.Certificate, 0, len(rawCerts))
			for _, raw := range rawCerts {
				cert, err := x509.ParseCertificate(raw)
				if err != nil {
					return err
				}
				chain = append(chain, cert)
			}
			return e.CheckClientTrusted(chain)
		},
	}
}
