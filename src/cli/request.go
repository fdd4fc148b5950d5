// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/fold"
	x509csr "github.com/slcs/org.glite.slcs.common/src/internal/x509/csr"
	x509dn "github.com/slcs/org.glite.slcs.common/src/internal/x509/dn"
	x509ext "github.com/slcs/org.glite.slcs.common/src/internal/x509/extension"
	x509keys "github.com/slcs/org.glite.slcs.common/src/internal/x509/keys"
)

// parseExtensionFlag splits "Name=Values" into a definition.
func parseExtensionFlag(s string) (x509ext.Definition, error) {
	name, values, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return x509ext.Definition{}, fmt.Errorf("%w: %q, want Name=Value,Value", x509ext.ErrUnsupportedExtension, s)
	}
	return x509ext.Definition{Name: name, Values: values}, nil
}

func (a *app) requestCommand() *cobra.Command {
	var (
		subject     string
		keyPath     string
		generate    bool
		bits        int
		out         string
		der         bool
		exts        []string
		foldAccents bool
	)

	cmd := &cobra.Command{
		Use:     "csr",
		Aliases: []string{"request"},
		Short:   "Create a PKCS#10 certificate request",
		Example: `  slcs-cert csr --subject "CN=Alice Example,O=Example,C=CH" --key userkey.pem --generate \
    --ext "KeyUsage=DigitalSignature,KeyEncipherment" --ext "ExtendedKeyUsage=ClientAuth"`,
		Args: cobra.NoArgs,
	}
	password := passwordFlags(cmd, "", "private key")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "subject distinguished name (RFC 2253)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "userkey.pem", "private key file")
	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "generate a new key and write it to --key")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "RSA modulus size for --generate")
	cmd.Flags().StringVarP(&out, "out", "o", "", "request file (default: stdout)")
	cmd.Flags().BoolVarP(&der, "der", "d", false, "write DER instead of PEM")
	cmd.Flags().StringArrayVarP(&exts, "ext", "e", nil, "extension as Name=Value,Value (repeatable)")
	cmd.Flags().BoolVar(&foldAccents, "fold-accents", false, "replace accented subject characters with ASCII")
	_ = cmd.MarkFlagRequired("subject")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if foldAccents || a.cfg.Request.FoldAccents {
			subject = fold.Accents(subject)
		}
		name, err := x509dn.Parse(subject)
		if err != nil {
			return err
		}

		defs := append([]x509ext.Definition(nil), a.cfg.Request.Extensions...)
		for _, e := range exts {
			def, err := parseExtensionFlag(e)
			if err != nil {
				return err
			}
			defs = append(defs, def)
		}
		extensions, err := x509ext.NewBuilder(a.log).BuildAll(defs...)
		if err != nil {
			return err
		}

		pass, err := password()
		if err != nil {
			return err
		}
		defer clear(pass)

		var km *x509keys.KeyMaterial
		if generate {
			km, err = x509keys.Generate(a.provider, bits, pass)
			if err == nil {
				err = km.StorePrivatePEM(keyPath, a.log)
			}
		} else {
			km, err = x509keys.LoadPrivateFile(a.provider, keyPath, pass)
		}
		if err != nil {
			return err
		}
		defer km.Destroy()

		req, err := x509csr.NewBuilder(a.provider, a.log).Create(name, km.Public(), km.Signer(), extensions)
		if err != nil {
			return err
		}
		a.log.Debugf("created request for %s with %d extension(s)", req.Subject(), len(req.Extensions()))

		data := req.PEM()
		if der {
			data = req.DER()
		}
		return a.output(cmd, out, data)
	}

	return cmd
}
