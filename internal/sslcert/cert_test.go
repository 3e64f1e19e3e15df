package sslcert

import (
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CertSuite struct {
	suite.Suite
	gen *Generator
}

func TestCertSuite(t *testing.T) {
	suite.Run(t, new(CertSuite))
}

func (s *CertSuite) SetupTest() {
	s.gen = MustNew("popuplink.local", "192.168.0.10")
}

func (s *CertSuite) TestGeneratePEM() {
	certPEM, keyPEM, err := s.gen.GeneratePEM()
	s.Require().NoError(err)
	s.Require().NotEmpty(certPEM)
	s.Require().NotEmpty(keyPEM)

	block, _ := pem.Decode(certPEM)
	s.Require().NotNil(block)
	s.Require().Equal("CERTIFICATE", block.Type)

	cert, parseErr := x509.ParseCertificate(block.Bytes)
	s.Require().NoError(parseErr)

	s.Contains(cert.DNSNames, "popuplink.local")
	s.True(cert.NotBefore.Before(time.Now()))
	s.True(cert.NotAfter.After(time.Now()))

	var found bool
	for _, ip := range cert.IPAddresses {
		if ip.String() == "192.168.0.10" {
			found = true
		}
	}
	s.True(found, "host ip must be in SAN")
}

func (s *CertSuite) TestKeypair() {
	pair, err := s.gen.Keypair()
	s.Require().NoError(err)
	s.Require().NotEmpty(pair.Certificate)
	s.Require().NotNil(pair.PrivateKey)
}
