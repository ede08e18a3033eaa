// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import (
	"crypto/x509"
	"fmt"
	"strings"

	"go.mozilla.org/pkcs7"
)

// VerifyAndLoadPredefineBundle verifies blob as a PKCS7 SignedData
// structure wrapping a plain-text `name[=value]` list (one entry per
// line, blank lines and lines starting with '#' ignored), the way
// security.go verifies an authenticode signature over a PE's contents,
// and returns the verified entries ready to feed into
// Options.Predefines (spec.md §12.1).
//
// When roots is nil, the bundle's own embedded certificate chain is
// still checked against the signed content and signer certificate
// validity period, but chain-of-trust verification against a system or
// caller-supplied root set is skipped — callers that need provenance
// guarantees must supply roots.
func VerifyAndLoadPredefineBundle(blob []byte, roots *x509.CertPool) ([]string, error) {
	p7, err := pkcs7.Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("predefine bundle: parse: %w", err)
	}
	if len(p7.Certificates) == 0 {
		return nil, fmt.Errorf("predefine bundle: no signer certificate present")
	}
	if roots != nil {
		if _, err := p7.Certificates[0].Verify(x509.VerifyOptions{Roots: roots, KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny}}); err != nil {
			return nil, fmt.Errorf("predefine bundle: certificate chain: %w", err)
		}
	}
	if err := p7.Verify(); err != nil {
		return nil, fmt.Errorf("predefine bundle: signature: %w", err)
	}
	return parsePredefineList(p7.Content), nil
}

// resolvePredefineBundle verifies ctx.Options.PredefineBundle, if any,
// against PredefineBundleTrust, returning the `name[=value]` entries it
// carries. With no trust cert supplied, the signature is still checked
// but the signer's chain of trust is not (see VerifyAndLoadPredefineBundle).
func (ctx *CompilationContext) resolvePredefineBundle() ([]string, error) {
	if ctx.Options.PredefineBundle == nil {
		return nil, nil
	}
	var roots *x509.CertPool
	if ctx.Options.PredefineBundleTrust != nil {
		cert, err := x509.ParseCertificate(ctx.Options.PredefineBundleTrust)
		if err != nil {
			return nil, fmt.Errorf("predefine bundle trust cert: %w", err)
		}
		roots = x509.NewCertPool()
		roots.AddCert(cert)
	}
	return VerifyAndLoadPredefineBundle(ctx.Options.PredefineBundle, roots)
}

func parsePredefineList(content []byte) []string {
	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
