// Copyright 2026 The Sigstore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package test has helpers for producing the certificates and signatures an
// identity provider would publish.
package test

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
)

/*
To use:

cert, priv, _ := GenerateRSASigningCert("idp-key-1")
certPEM, _ := cryptoutils.MarshalCertificateToPEM(cert)
sig, _ := SignRS256(priv, []byte("header.payload"))

certs := crypt.CertSet{}.Add("idp-key-1", certPEM)
err := crypt.VerifySignature(p, []byte("header.payload"), sig, certs)
*/

func createCertificate(template *x509.Certificate, parent *x509.Certificate, pub interface{}, priv crypto.Signer) (*x509.Certificate, error) {
	signatureAlgorithm, err := toSignatureAlgorithm(priv, crypto.SHA256)
	if err != nil {
		return nil, err
	}

	template.SignatureAlgorithm = signatureAlgorithm
	certBytes, err := x509.CreateCertificate(rand.Reader, template, parent, pub, priv)
	if err != nil {
		return nil, err
	}

	return x509.ParseCertificate(certBytes)
}

// GenerateSigningCertFromSigner returns a self-signed certificate for signer,
// shaped like the ones identity providers publish for token signing keys.
func GenerateSigningCertFromSigner(commonName string, signer crypto.Signer) (*x509.Certificate, error) {
	serial, err := cryptoutils.GenerateSerialNumber()
	if err != nil {
		return nil, err
	}
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: commonName,
		},
		NotBefore:             time.Now().Add(-5 * time.Minute),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}
	return createCertificate(template, template, signer.Public(), signer)
}

func GenerateRSASigningCert(commonName string) (*x509.Certificate, *rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	cert, err := GenerateSigningCertFromSigner(commonName, priv)
	if err != nil {
		return nil, nil, err
	}
	return cert, priv, nil
}

func GenerateECDSASigningCert(commonName string) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	cert, err := GenerateSigningCertFromSigner(commonName, priv)
	if err != nil {
		return nil, nil, err
	}
	return cert, priv, nil
}

// GenerateExpiredSigningCert returns a certificate whose validity ended an
// hour ago.
func GenerateExpiredSigningCert(commonName string) (*x509.Certificate, *rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-48 * time.Hour),
		NotAfter:              time.Now().Add(-1 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	cert, err := createCertificate(template, template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, err
	}
	return cert, priv, nil
}

// CertPEM PEM encodes cert.
func CertPEM(cert *x509.Certificate) ([]byte, error) {
	return cryptoutils.MarshalCertificateToPEM(cert)
}

// SignRS256 signs message with RSASSA-PKCS1-v1_5 over SHA-256.
func SignRS256(priv *rsa.PrivateKey, message []byte) ([]byte, error) {
	signer, err := signature.LoadRSAPKCS1v15Signer(priv, crypto.SHA256)
	if err != nil {
		return nil, err
	}
	return signer.SignMessage(bytes.NewReader(message))
}

// SignES256 signs message with ECDSA over SHA-256, ASN.1 encoded.
func SignES256(priv *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	signer, err := signature.LoadECDSASigner(priv, crypto.SHA256)
	if err != nil {
		return nil, err
	}
	return signer.SignMessage(bytes.NewReader(message))
}

func toSignatureAlgorithm(signer crypto.Signer, hash crypto.Hash) (x509.SignatureAlgorithm, error) {
	if signer == nil {
		return x509.UnknownSignatureAlgorithm, errors.New("signer is nil")
	}

	pub := signer.Public()
	switch pub := pub.(type) {
	case *rsa.PublicKey:
		switch hash {
		case crypto.SHA256:
			return x509.SHA256WithRSA, nil
		case crypto.SHA384:
			return x509.SHA384WithRSA, nil
		case crypto.SHA512:
			return x509.SHA512WithRSA, nil
		default:
			return x509.UnknownSignatureAlgorithm, fmt.Errorf("unsupported hash algorithm for RSA: %v", hash)
		}
	case *ecdsa.PublicKey:
		switch hash {
		case crypto.SHA256:
			return x509.ECDSAWithSHA256, nil
		case crypto.SHA384:
			return x509.ECDSAWithSHA384, nil
		case crypto.SHA512:
			return x509.ECDSAWithSHA512, nil
		default:
			return x509.UnknownSignatureAlgorithm, fmt.Errorf("unsupported hash algorithm for ECDSA: %v", hash)
		}
	case ed25519.PublicKey:
		return x509.PureEd25519, nil
	default:
		return x509.UnknownSignatureAlgorithm, fmt.Errorf("unsupported public key type: %T", pub)
	}
}
