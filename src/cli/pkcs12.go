// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	x509certs "github.com/slcs/org.glite.slcs.common/src/internal/x509/certs"
	x509keys "github.com/slcs/org.glite.slcs.common/src/internal/x509/keys"
)

var (
	// ErrExportPassword indicates a PKCS#12 export without a password.
	ErrExportPassword = errors.New("an export password is required")

	// ErrKeyMismatch indicates a private key that does not belong to the certificate.
	ErrKeyMismatch = errors.New("private key does not match the certificate")
)

func (a *app) pkcs12Command() *cobra.Command {
	var certPath, keyPath, out string

	cmd := &cobra.Command{
		Use:   "pkcs12",
		Short: "Pack the private key and issued certificate into a PKCS#12 file",
		Args:  cobra.NoArgs,
	}
	keyPassword := passwordFlags(cmd, "key-", "private key")
	exportPassword := passwordFlags(cmd, "export-", "PKCS#12")
	cmd.Flags().StringVar(&certPath, "cert", "usercert.pem", "issued certificate and chain")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "userkey.pem", "private key file")
	cmd.Flags().StringVarP(&out, "out", "o", "usercred.p12", "PKCS#12 file")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		bundle, err := x509certs.LoadFile(certPath)
		if err != nil {
			return err
		}

		keyPass, err := keyPassword()
		if err != nil {
			return err
		}
		km, err := x509keys.LoadPrivateFile(a.provider, keyPath, keyPass)
		clear(keyPass)
		if err != nil {
			return err
		}
		defer km.Destroy()

		if !km.Public().Equal(bundle.Leaf().PublicKey) {
			return ErrKeyMismatch
		}

		exportPass, err := exportPassword()
		if err != nil {
			return err
		}
		if len(exportPass) == 0 {
			return ErrExportPassword
		}
		defer clear(exportPass)

		if err := bundle.StorePKCS12(out, km.Signer(), string(exportPass), a.log); err != nil {
			return err
		}
		OperationPerformed = true
		a.log.Printf("wrote %s for %s", out, bundle.Leaf().Subject)
		return nil
	}

	return cmd
}
