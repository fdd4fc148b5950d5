// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	x509chain "github.com/slcs/org.glite.slcs.common/src/internal/x509/chain"
)

// evaluator builds the trust evaluator from the configured trust store,
// overridden by the command's flags.
func (a *app) evaluator(store, storeType string, password func() ([]byte, error)) (*x509chain.Evaluator, error) {
	if store == "" {
		store = a.cfg.Trust.Store
	}
	if storeType == "" {
		storeType = a.cfg.Trust.Type
	}

	trusted := x509chain.NewIssuerSet()
	if store != "" {
		pass, err := password()
		if err != nil {
			return nil, err
		}
		if pass == nil {
			pass = []byte(a.cfg.Trust.Password)
		}

		typ, err := x509chain.ParseStoreType(storeType, store)
		if err != nil {
			return nil, err
		}
		trusted, err = x509chain.LoadTrustStoreFile(store, typ, string(pass))
		if err != nil {
			return nil, err
		}
		a.log.Debugf("loaded %d trusted certificate(s) from %s", trusted.Len(), store)
	}

	return x509chain.NewEvaluator(x509chain.NewSystemDelegate(), trusted, a.log), nil
}

func (a *app) trustCommand() *cobra.Command {
	var (
		src       chainSource
		store     string
		storeType string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "trust [FILE]",
		Short: "Check a server certificate chain against system roots and the local trust store",
		Long: "Check the chain of a TLS server, or a chain read from a file, the way the client does before " +
			"talking to an SLCS server: system roots first, then the local trust store.",
		Args: cobra.MaximumNArgs(1),
	}
	src.register(cmd)
	password := passwordFlags(cmd, "truststore-", "trust store")
	cmd.Flags().StringVarP(&store, "truststore", "t", "", "trust store file (default from configuration)")
	cmd.Flags().StringVar(&storeType, "truststore-type", "", "trust store type: pem, jks or pkcs12 (default: from extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, tree or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := a.evaluator(store, storeType, password)
		if err != nil {
			return err
		}

		ch, err := src.load(a, cmd, args)
		if err != nil {
			return err
		}

		var verdict *x509chain.Verdict
		v, trustErr := e.Evaluate(ch.Certificates())
		if trustErr == nil {
			verdict = &v
		}

		var out []byte
		switch format {
		case "table":
			out = []byte(ch.RenderTable(verdict))
		case "tree":
			out = []byte(ch.RenderASCIITree(verdict))
		case "json":
			out, err = ch.ToVisualizationJSON(verdict)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
		if err := a.output(cmd, "", out); err != nil {
			return err
		}

		if trustErr != nil {
			return trustErr
		}
		a.log.Printf("chain trusted: %s", verdict.Source)
		return nil
	}

	return cmd
}
