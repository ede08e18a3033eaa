// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ccdump drives the front end over a single translation unit
// and prints its parsed statement chain or macro-expanded token
// stream, in the spirit of the PE dumper this module grew out of.
package main

import (
	"encoding/pem"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cc "github.com/cclang/front"
)

var (
	wantDefine  []string
	wantInclude []string
	wantColor   bool

	wantPredefineBundle string
	wantPredefineRoots  string
)

func main() {
	root := &cobra.Command{
		Use:   "ccdump",
		Short: "Dump the parsed IR or macro-expanded output of a C translation unit",
	}
	root.PersistentFlags().BoolVar(&wantColor, "color", false, "colorize diagnostic severities")

	dumpCmd := &cobra.Command{
		Use:   "dump <file.c>",
		Short: "Parse a file and print its statement chain",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpCmd.Flags().StringSliceVarP(&wantDefine, "define", "D", nil, "predefine NAME or NAME=VALUE")
	dumpCmd.Flags().StringSliceVarP(&wantInclude, "include-dir", "I", nil, "add a #include search directory")
	dumpCmd.Flags().StringVar(&wantPredefineBundle, "predefine-bundle", "", "load a PKCS7-signed bundle of predefine directives")
	dumpCmd.Flags().StringVar(&wantPredefineRoots, "predefine-bundle-roots", "", "PEM file of trusted signer certs for --predefine-bundle (when omitted, the signer's certificate chain is not checked)")

	expandCmd := &cobra.Command{
		Use:   "expand <file.c>",
		Short: "Run only the preprocessor and print the expanded token stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runExpand,
	}
	expandCmd.Flags().StringSliceVarP(&wantDefine, "define", "D", nil, "predefine NAME or NAME=VALUE")
	expandCmd.Flags().StringSliceVarP(&wantInclude, "include-dir", "I", nil, "add a #include search directory")
	expandCmd.Flags().StringVar(&wantPredefineBundle, "predefine-bundle", "", "load a PKCS7-signed bundle of predefine directives")
	expandCmd.Flags().StringVar(&wantPredefineRoots, "predefine-bundle-roots", "", "PEM file of trusted signer certs for --predefine-bundle (when omitted, the signer's certificate chain is not checked)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print ccdump's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ccdump 0.1.0")
		},
	}

	root.AddCommand(dumpCmd, expandCmd, versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newContext wires a CompilationContext + Lexer for path, registering
// a TextConsumer so diagnostics stream to stderr as they are emitted.
// --predefine-bundle/-roots are passed straight through as
// Options.PredefineBundle/PredefineBundleTrust: verifying the bundle
// and merging it into Options.Predefines is the core's job (lexer.go),
// not this driver's.
func newContext(path string) (*cc.CompilationContext, *cc.Lexer, error) {
	opts := &cc.Options{
		IncludePathsUser: wantInclude,
		Predefines:       wantDefine,
	}
	if wantPredefineBundle != "" {
		blob, err := os.ReadFile(wantPredefineBundle)
		if err != nil {
			return nil, nil, fmt.Errorf("predefine bundle: %w", err)
		}
		opts.PredefineBundle = blob
	}
	if wantPredefineRoots != "" {
		pemBytes, err := os.ReadFile(wantPredefineRoots)
		if err != nil {
			return nil, nil, fmt.Errorf("predefine bundle roots: %w", err)
		}
		block, _ := pem.Decode(pemBytes)
		if block == nil {
			return nil, nil, fmt.Errorf("predefine bundle roots: no PEM block found in %s", wantPredefineRoots)
		}
		opts.PredefineBundleTrust = block.Bytes
	}
	ctx := cc.NewCompilationContext(opts, nil)
	ctx.Diags.AddConsumer(cc.NewTextConsumer(os.Stderr, wantColor))
	if err := ctx.Source.AddFile(path); err != nil {
		return nil, nil, err
	}
	lex := cc.NewLexer(ctx, ctx.Source)
	if ctx.Diags.HasErrors() {
		return nil, nil, fmt.Errorf("predefine bundle rejected, see diagnostics above")
	}
	return ctx, lex, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, lex, err := newContext(args[0])
	if err != nil {
		return err
	}
	tu := cc.ParseTranslationUnit(ctx, lex, nil)
	cc.FprintStmt(os.Stdout, tu.Root)
	if ctx.Diags.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx, lex, err := newContext(args[0])
	if err != nil {
		return err
	}
	for {
		tok := lex.Next()
		if tok.Kind == cc.TEOF {
			break
		}
		if tok.Kind == cc.TIdent && tok.Ident != nil {
			fmt.Printf("%s ", tok.Ident.Text())
		} else if tok.Text != "" {
			fmt.Printf("%s ", tok.Text)
		} else {
			fmt.Printf("%s ", tok.Kind.String())
		}
	}
	fmt.Println()
	if ctx.Diags.HasErrors() {
		os.Exit(1)
	}
	return nil
}
