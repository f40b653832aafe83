/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/telemeter/pkg/sensor"
)

func writeKeyPair(t *testing.T, dir string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "telemeter-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.pem"), certPEM, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client-key.pem"), keyPEM, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.pem"), certPEM, 0o600))
}

func TestTLSConfigBuild(t *testing.T) {
	dir := t.TempDir()
	writeKeyPair(t, dir)

	cfg := &TLSConfig{
		CertFile:   "client.pem",
		KeyFile:    "client-key.pem",
		CAFile:     filepath.Join(dir, "root.pem"),
		CertDir:    dir,
		ServerName: "nats.local",
	}

	require.True(t, cfg.Enabled())

	tlsConf, err := cfg.Build()
	require.NoError(t, err)
	assert.Len(t, tlsConf.Certificates, 1)
	assert.Equal(t, "nats.local", tlsConf.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS13), tlsConf.MinVersion)
	assert.NotNil(t, tlsConf.RootCAs)
}

func TestTLSConfigErrors(t *testing.T) {
	var unset *TLSConfig
	assert.False(t, unset.Enabled())
	assert.False(t, (&TLSConfig{CertDir: "/etc/telemeter"}).Enabled())

	_, err := (&TLSConfig{CertFile: "client.pem"}).Build()
	require.ErrorIs(t, err, errIncompleteTLS)

	dir := t.TempDir()
	writeKeyPair(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.pem"), []byte("not a certificate"), 0o600))

	_, err = (&TLSConfig{CertFile: "client.pem", KeyFile: "client-key.pem", CAFile: "garbage.pem", CertDir: dir}).Build()
	require.ErrorIs(t, err, ErrCAParsingFailed)

	_, err = (&TLSConfig{CertFile: "missing.pem", KeyFile: "client-key.pem", CAFile: "root.pem", CertDir: dir}).Build()
	require.Error(t, err)

	_, err = Connect(Config{URL: "nats://127.0.0.1:1", NodeID: "alpha", TLS: &TLSConfig{CAFile: "root.pem"}},
		sensor.Default(sensor.Deps{}), nil)
	require.ErrorIs(t, err, errIncompleteTLS)
}
