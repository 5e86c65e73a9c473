package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// ALPN protocol lists for the two servers.
var (
	ProtosHTTP = []string{"http/1.1"}
	ProtosGRPC = []string{"h2"}
)

// TLSListener opens TLS listeners from a certificate and key on disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
	nextProtos         []string
}

// NewTLSListener creates a TLSListener advertising nextProtos through ALPN.
func NewTLSListener(certFileName, privateKeyFileName string, nextProtos ...string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
		nextProtos:         nextProtos,
	}
}

// Listen loads the key pair and listens on addr. Only TLS 1.2 and newer
// are accepted.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   l.nextProtos,
	}
	return tls.Listen(protocol, addr, tlsConfig)
}

// PlainListener opens unencrypted listeners, for local development or when
// TLS terminates in front of the service.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}

// NewSecurityLayer returns a TLSListener when enableTLS is set and a
// PlainListener otherwise.
func NewSecurityLayer(enableTLS bool, certFileName, privateKeyFileName string, nextProtos []string) model.SecurityLayer {
	if enableTLS {
		return NewTLSListener(certFileName, privateKeyFileName, nextProtos...)
	}
	return NewPlainListener()
}
