// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"go.mozilla.org/pkcs7"
)

// signTestBundle signs content with a freshly minted self-signed
// certificate, returning the PKCS7 blob and the signing certificate so
// the caller can decide whether to trust it.
func signTestBundle(t *testing.T, content []byte) ([]byte, *x509.Certificate) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate signing key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test predefine signer"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).AddDate(50, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create self-signed cert: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse self-signed cert: %v", err)
	}

	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		t.Fatalf("pkcs7.NewSignedData: %v", err)
	}
	if err := sd.AddSigner(cert, key, pkcs7.SignerInfoConfig{}); err != nil {
		t.Fatalf("AddSigner: %v", err)
	}
	blob, err := sd.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return blob, cert
}

func TestVerifyAndLoadPredefineBundleTrustedSigner(t *testing.T) {
	content := []byte("FOO=1\nBAR=2\n# a comment, skipped\n\nBAZ\n")
	blob, cert := signTestBundle(t, content)

	roots := x509.NewCertPool()
	roots.AddCert(cert)

	got, err := VerifyAndLoadPredefineBundle(blob, roots)
	if err != nil {
		t.Fatalf("VerifyAndLoadPredefineBundle: %v", err)
	}
	want := []string{"FOO=1", "BAR=2", "BAZ"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVerifyAndLoadPredefineBundleUntrustedSignerRejected(t *testing.T) {
	blob, _ := signTestBundle(t, []byte("EVIL=1\n"))

	// An empty pool means the signer's self-signed cert chains to
	// nothing trusted, so verification must fail closed.
	roots := x509.NewCertPool()
	if _, err := VerifyAndLoadPredefineBundle(blob, roots); err == nil {
		t.Fatalf("expected an untrusted signer to be rejected")
	}
}

func TestResolvePredefineBundleMergesIntoLexer(t *testing.T) {
	blob, cert := signTestBundle(t, []byte("GREETING=42\n"))
	opts := &Options{PredefineBundleTrust: cert.Raw, PredefineBundle: blob}
	ctx := NewCompilationContext(opts, nil)
	ctx.Source.AddString("int x = GREETING;", "test.c")
	lex := NewLexer(ctx, ctx.Source)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics resolving a trusted predefine bundle")
	}
	toks := []Token{}
	for {
		tok := lex.Next()
		if tok.Kind == TEOF {
			break
		}
		toks = append(toks, tok)
	}
	if len(toks) != 5 || toks[3].Kind != TPPNumber || toks[3].Text != "42" {
		t.Fatalf("GREETING did not expand via the signed predefine bundle: %v", toks)
	}
}
