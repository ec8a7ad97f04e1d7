package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"slices"
	"time"

	corev1 "k8s.io/api/core/v1"
)

const (
	// Organization is written into every generated subject.
	Organization = "Trustify Operator"
	// CAValidityDuration is how long a generated CA is valid.
	CAValidityDuration = 10 * 365 * 24 * time.Hour
	// ServerValidityDuration is how long a generated leaf is valid.
	ServerValidityDuration = 365 * 24 * time.Hour
	// RenewBefore is the remaining validity below which a leaf is replaced.
	RenewBefore = 30 * 24 * time.Hour

	// CACertKey holds the CA certificate in generated secrets.
	CACertKey = "ca.crt"
)

// ErrNoCertificate is returned when PEM data holds no certificate block.
var ErrNoCertificate = errors.New("no certificate found in PEM data")

// CA is a signing authority kept in memory only.
type CA struct {
	Cert    *x509.Certificate
	Key     *ecdsa.PrivateKey
	CertPEM []byte
}

// Leaf is a PEM-encoded certificate and key.
type Leaf struct {
	CertPEM []byte
	KeyPEM  []byte
}

// Bundle is a leaf together with the CA that signed it.
type Bundle struct {
	CACertPEM []byte
	Leaf
}

// swapped in tests
var (
	marshalECPrivateKey = x509.MarshalECPrivateKey
	parseCertificate    = x509.ParseCertificate
	now                 = time.Now
)

func newSerial() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
}

// GenerateCA creates a self-signed ECDSA P-256 root.
func GenerateCA(commonName string) (*CA, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA private key: %w", err)
	}
	serial, err := newSerial()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA serial: %w", err)
	}

	if commonName == "" {
		commonName = Organization + " CA"
	}
	start := now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{Organization},
		},
		NotBefore:             start.Add(-time.Hour),
		NotAfter:              start.Add(CAValidityDuration),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create CA certificate: %w", err)
	}
	cert, err := parseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated CA: %w", err)
	}

	return &CA{
		Cert:    cert,
		Key:     key,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}, nil
}

// Sign issues a server certificate for dnsNames. A commonName that parses
// as an IP address is also added as an IP SAN.
func (ca *CA) Sign(commonName string, dnsNames []string) (*Leaf, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate server private key: %w", err)
	}
	serial, err := newSerial()
	if err != nil {
		return nil, fmt.Errorf("failed to generate server serial: %w", err)
	}

	start := now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{Organization},
		},
		DNSNames:    dnsNames,
		NotBefore:   start.Add(-time.Hour),
		NotAfter:    start.Add(ServerValidityDuration),
		KeyUsage:    x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if ip := net.ParseIP(commonName); ip != nil {
		template.IPAddresses = []net.IP{ip}
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, ca.Cert, &key.PublicKey, ca.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign server certificate: %w", err)
	}
	keyDER, err := marshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal server key: %w", err)
	}

	return &Leaf{
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
	}, nil
}

// SelfSigned generates a fresh CA and a leaf for dnsNames. The first DNS
// name becomes the common name.
func SelfSigned(dnsNames ...string) (*Bundle, error) {
	if len(dnsNames) == 0 {
		return nil, errors.New("at least one DNS name is required")
	}
	ca, err := GenerateCA("")
	if err != nil {
		return nil, err
	}
	leaf, err := ca.Sign(dnsNames[0], dnsNames)
	if err != nil {
		return nil, err
	}
	return &Bundle{CACertPEM: ca.CertPEM, Leaf: *leaf}, nil
}

// SecretData lays the bundle out as kubernetes.io/tls secret data.
func (b *Bundle) SecretData() map[string][]byte {
	return map[string][]byte{
		corev1.TLSCertKey:       b.CertPEM,
		corev1.TLSPrivateKeyKey: b.KeyPEM,
		CACertKey:               b.CACertPEM,
	}
}

// ParseCertificate decodes the first certificate in certPEM.
func ParseCertificate(certPEM []byte) (*x509.Certificate, error) {
	for len(certPEM) > 0 {
		var block *pem.Block
		block, certPEM = pem.Decode(certPEM)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			return x509.ParseCertificate(block.Bytes)
		}
	}
	return nil, ErrNoCertificate
}

// NeedsRenewal reports whether certPEM is missing, unparsable, expiring
// within RenewBefore, or does not cover every name in dnsNames.
func NeedsRenewal(certPEM []byte, dnsNames []string) bool {
	cert, err := ParseCertificate(certPEM)
	if err != nil {
		return true
	}
	if now().Add(RenewBefore).After(cert.NotAfter) {
		return true
	}
	for _, name := range dnsNames {
		if !slices.Contains(cert.DNSNames, name) {
			return true
		}
	}
	return false
}
