package sslcert

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

const keyBits = 2048

// Generator генератор самоподписанных сертификатов для HTTPS режима.
// Содержит базовый шаблон сертификата.
type Generator struct {
	cert *x509.Certificate
}

// New создает генератор. Хосты попадают в SAN сертификата: IP адреса как
// IPAddresses, остальное как DNSNames. Loopback адреса добавляются всегда.
func New(hosts ...string) (*Generator, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128)) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("generate serial number: %w", err)
	}

	cert := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"popuplink"},
		},
		IPAddresses: []net.IP{
			net.IPv4(127, 0, 0, 1), //nolint:mnd
			net.IPv6loopback,
		},
		NotBefore: time.Now(),
		NotAfter:  time.Now().AddDate(1, 0, 0),
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
		},
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	for _, h := range hosts {
		if h == "" {
			continue
		}
		if ip := net.ParseIP(h); ip != nil {
			cert.IPAddresses = append(cert.IPAddresses, ip)
		} else {
			cert.DNSNames = append(cert.DNSNames, h)
		}
	}

	return &Generator{cert: cert}, nil
}

// MustNew аналогичен New(), но в случае ошибки вызывает панику.
func MustNew(hosts ...string) *Generator {
	g, err := New(hosts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Keypair генерирует пару сертификат/ключ, готовую для tls.Config.
func (g *Generator) Keypair() (tls.Certificate, error) {
	certPEM, keyPEM, err := g.GeneratePEM()
	if err != nil {
		return tls.Certificate{}, err
	}

	pair, pairErr := tls.X509KeyPair(certPEM, keyPEM)
	if pairErr != nil {
		return tls.Certificate{}, fmt.Errorf("build keypair: %w", pairErr)
	}
	return pair, nil
}

// GeneratePEM генерирует сертификат и приватный ключ в формате PEM.
func (g *Generator) GeneratePEM() ([]byte, []byte, error) {
	privKey, errGenPrivKey := rsa.GenerateKey(rand.Reader, keyBits)
	if errGenPrivKey != nil {
		return nil, nil, fmt.Errorf("generate private key: %w", errGenPrivKey)
	}

	certBytes, errGenCert := x509.CreateCertificate(rand.Reader, g.cert, g.cert, &privKey.PublicKey, privKey)
	if errGenCert != nil {
		return nil, nil, fmt.Errorf("generate certificate: %w", errGenCert)
	}

	certPEM, keyPEM, errPEM := pemEncode(privKey, certBytes)
	if errPEM != nil {
		return nil, nil, fmt.Errorf("encode certificate and private key: %w", errPEM)
	}
	return certPEM, keyPEM, nil
}

// pemEncode кодирует сертификат и приватный ключ в формат PEM.
func pemEncode(privKey *rsa.PrivateKey, certBytes []byte) ([]byte, []byte, error) {
	var certPEM bytes.Buffer
	if err := pem.Encode(&certPEM, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certBytes,
	}); err != nil {
		return nil, nil, fmt.Errorf("pem encode certificate: %w", err)
	}

	var keyPEM bytes.Buffer
	if err := pem.Encode(&keyPEM, &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privKey),
	}); err != nil {
		return nil, nil, fmt.Errorf("pem encode RSA: %w", err)
	}

	return certPEM.Bytes(), keyPEM.Bytes(), nil
}
