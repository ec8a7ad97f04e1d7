package cert

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
)

func decodeCert(tb testing.TB, pemData []byte) *x509.Certificate {
	tb.Helper()
	cert, err := ParseCertificate(pemData)
	if err != nil {
		tb.Fatalf("ParseCertificate() error = %v", err)
	}
	return cert
}

func TestGenerateCA(t *testing.T) {
	t.Parallel()

	ca, err := GenerateCA("")
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	cert := decodeCert(t, ca.CertPEM)
	if !cert.IsCA {
		t.Error("CA certificate has IsCA=false")
	}
	if got, want := cert.Subject.CommonName, "Trustify Operator CA"; got != want {
		t.Errorf("CommonName = %q, want %q", got, want)
	}

	named, err := GenerateCA("custom")
	if err != nil {
		t.Fatalf("GenerateCA(custom) error = %v", err)
	}
	if got := named.Cert.Subject.CommonName; got != "custom" {
		t.Errorf("CommonName = %q, want custom", got)
	}
}

func TestCA_Sign(t *testing.T) {
	t.Parallel()

	ca, err := GenerateCA("")
	if err != nil {
		t.Fatalf("setup failed: GenerateCA() error = %v", err)
	}

	tests := map[string]struct {
		commonName string
		dnsNames   []string
		validate   func(testing.TB, *x509.Certificate)
	}{
		"service names": {
			commonName: "demo-keycloak-service.ns.svc",
			dnsNames:   []string{"demo-keycloak-service", "demo-keycloak-service.ns.svc"},
			validate: func(tb testing.TB, cert *x509.Certificate) {
				if cert.IsCA {
					tb.Error("leaf has IsCA=true")
				}
				if diff := cmp.Diff([]string{"demo-keycloak-service", "demo-keycloak-service.ns.svc"}, cert.DNSNames); diff != "" {
					tb.Errorf("DNSNames mismatch (-want +got):\n%s", diff)
				}
				if len(cert.ExtKeyUsage) != 1 || cert.ExtKeyUsage[0] != x509.ExtKeyUsageServerAuth {
					tb.Errorf("ExtKeyUsage = %v, want [ServerAuth]", cert.ExtKeyUsage)
				}
				if err := cert.CheckSignatureFrom(ca.Cert); err != nil {
					tb.Errorf("CheckSignatureFrom() error = %v", err)
				}
			},
		},
		"ip common name": {
			commonName: "10.0.0.1",
			dnsNames:   []string{"example.com"},
			validate: func(tb testing.TB, cert *x509.Certificate) {
				if len(cert.IPAddresses) != 1 || !cert.IPAddresses[0].Equal(net.ParseIP("10.0.0.1")) {
					tb.Errorf("IPAddresses = %v, want [10.0.0.1]", cert.IPAddresses)
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			leaf, err := ca.Sign(tc.commonName, tc.dnsNames)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			block, _ := pem.Decode(leaf.KeyPEM)
			if block == nil || block.Type != "EC PRIVATE KEY" {
				t.Fatalf("KeyPEM is not an EC private key")
			}
			tc.validate(t, decodeCert(t, leaf.CertPEM))
		})
	}
}

func TestSelfSigned(t *testing.T) {
	t.Parallel()

	if _, err := SelfSigned(); err == nil {
		t.Fatal("SelfSigned() without names expected error")
	}

	b, err := SelfSigned("demo-keycloak-service", "demo-keycloak-service.ns.svc")
	if err != nil {
		t.Fatalf("SelfSigned() error = %v", err)
	}
	data := b.SecretData()
	for _, key := range []string{corev1.TLSCertKey, corev1.TLSPrivateKeyKey, CACertKey} {
		if len(data[key]) == 0 {
			t.Errorf("SecretData()[%q] is empty", key)
		}
	}

	leaf := decodeCert(t, data[corev1.TLSCertKey])
	ca := decodeCert(t, data[CACertKey])
	if err := leaf.CheckSignatureFrom(ca); err != nil {
		t.Errorf("leaf is not signed by the bundled CA: %v", err)
	}
	if got := leaf.Subject.CommonName; got != "demo-keycloak-service" {
		t.Errorf("CommonName = %q, want first DNS name", got)
	}
}

func TestParseCertificate(t *testing.T) {
	t.Parallel()

	b, err := SelfSigned("a")
	if err != nil {
		t.Fatalf("SelfSigned() error = %v", err)
	}

	// A key block in front of the certificate is skipped.
	mixed := append(append([]byte{}, b.KeyPEM...), b.CertPEM...)
	if cert, err := ParseCertificate(mixed); err != nil || cert.Subject.CommonName != "a" {
		t.Errorf("ParseCertificate(key+cert) = %v, %v", cert, err)
	}

	if _, err := ParseCertificate(b.KeyPEM); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("ParseCertificate(key) error = %v, want ErrNoCertificate", err)
	}
	if _, err := ParseCertificate([]byte("garbage")); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("ParseCertificate(garbage) error = %v, want ErrNoCertificate", err)
	}
}

// Not parallel: swaps the package clock.
func TestNeedsRenewal(t *testing.T) {
	b, err := SelfSigned("svc", "svc.ns.svc")
	if err != nil {
		t.Fatalf("SelfSigned() error = %v", err)
	}

	defer func() { now = time.Now }()

	tests := map[string]struct {
		certPEM  []byte
		dnsNames []string
		clock    time.Time
		want     bool
	}{
		"fresh certificate": {
			certPEM:  b.CertPEM,
			dnsNames: []string{"svc.ns.svc"},
			clock:    time.Now(),
			want:     false,
		},
		"close to expiry": {
			certPEM:  b.CertPEM,
			dnsNames: []string{"svc"},
			clock:    time.Now().Add(ServerValidityDuration - RenewBefore/2),
			want:     true,
		},
		"missing name": {
			certPEM:  b.CertPEM,
			dnsNames: []string{"other.ns.svc"},
			clock:    time.Now(),
			want:     true,
		},
		"empty data": {
			clock: time.Now(),
			want:  true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			now = func() time.Time { return tc.clock }
			if got := NeedsRenewal(tc.certPEM, tc.dnsNames); got != tc.want {
				t.Errorf("NeedsRenewal() = %v, want %v", got, tc.want)
			}
		})
	}
}

// Not parallel: swaps package hooks.
func TestGenerator_MockFailures(t *testing.T) {
	defer func() {
		parseCertificate = x509.ParseCertificate
		marshalECPrivateKey = x509.MarshalECPrivateKey
	}()

	t.Run("GenerateCA: parse failure", func(t *testing.T) {
		parseCertificate = func([]byte) (*x509.Certificate, error) {
			return nil, errors.New("mock parse error")
		}
		_, err := GenerateCA("")
		if err == nil || !strings.Contains(err.Error(), "failed to parse generated CA") {
			t.Errorf("GenerateCA() error = %v, want parse error", err)
		}
		parseCertificate = x509.ParseCertificate
	})

	t.Run("Sign: marshal failure", func(t *testing.T) {
		ca, err := GenerateCA("")
		if err != nil {
			t.Fatalf("GenerateCA() error = %v", err)
		}
		marshalECPrivateKey = func(*ecdsa.PrivateKey) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		_, err = ca.Sign("foo", nil)
		if err == nil || !strings.Contains(err.Error(), "failed to marshal server key") {
			t.Errorf("Sign() error = %v, want marshal error", err)
		}
		if _, err := SelfSigned("foo"); err == nil {
			t.Error("SelfSigned() expected marshal error")
		}
	})
}
