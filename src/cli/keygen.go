// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/spf13/cobra"

	x509keys "github.com/slcs/org.glite.slcs.common/src/internal/x509/keys"
)

func (a *app) keygenCommand() *cobra.Command {
	var (
		out       string
		bits      int
		publicOut string
		asPKCS8   bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA private key",
		Args:  cobra.NoArgs,
	}
	password := passwordFlags(cmd, "", "private key")
	cmd.Flags().StringVarP(&out, "out", "o", "userkey.pem", "private key file")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "RSA modulus size (default from configuration)")
	cmd.Flags().StringVar(&publicOut, "public-out", "", "also write the public key to this file")
	cmd.Flags().BoolVar(&asPKCS8, "pkcs8", false, "write the private key as PKCS#8 instead of PKCS#1")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		pass, err := password()
		if err != nil {
			return err
		}

		km, err := x509keys.Generate(a.provider, bits, pass)
		clear(pass)
		if err != nil {
			return err
		}
		defer km.Destroy()

		if !km.HasPassword() {
			a.log.Warnf("private key %s is not encrypted", out)
		}
		store := km.StorePrivatePEM
		if asPKCS8 {
			store = km.StorePKCS8PEM
		}
		if err := store(out, a.log); err != nil {
			return err
		}
		OperationPerformed = true
		a.log.Printf("wrote %d-bit private key to %s", km.Bits(), out)

		if publicOut != "" {
			pub, err := km.PublicPEM()
			if err != nil {
				return err
			}
			return a.output(cmd, publicOut, pub)
		}
		return nil
	}

	return cmd
}
