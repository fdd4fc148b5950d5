// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/rsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	x509certs "github.com/slcs/org.glite.slcs.common/src/internal/x509/certs"
	x509chain "github.com/slcs/org.glite.slcs.common/src/internal/x509/chain"
	x509csr "github.com/slcs/org.glite.slcs.common/src/internal/x509/csr"
)

// renderRequest renders a request's subject, key and extensions as
// markdown tables.
func renderRequest(req *x509csr.Request) string {
	var buf strings.Builder

	keySize := "unknown"
	if pub, ok := req.PublicKey().(*rsa.PublicKey); ok {
		keySize = fmt.Sprintf("%d-bit RSA", pub.Size()*8)
	}

	summary := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	summary.Header([]string{"Field", "Value"})
	summary.Bulk([][]string{
		{"Subject", req.Subject().String()},
		{"Public Key", keySize},
		{"Signature Algorithm", req.SignatureAlgorithm().String()},
	})
	summary.Render()

	exts := req.Extensions()
	if len(exts) == 0 {
		buf.WriteString("\nNo extensions requested\n")
		return buf.String()
	}

	buf.WriteString("\n")
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Extension", "OID", "Critical", "Value"})
	rows := make([][]string, 0, len(exts))
	for _, ext := range exts {
		rows = append(rows, []string{ext.Name, ext.OID.String(), strconv.FormatBool(ext.Critical), ext.Description})
	}
	table.Bulk(rows)
	table.Render()

	return buf.String()
}

func (a *app) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show a certificate request or certificate file",
		Long:  "Show the subject and extensions of a certificate request, or the certificates of a PEM, DER or PKCS#7 file. Use - to read standard input.",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return ErrInputFileRequired
		}

		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		req, reqErr := x509csr.Load(data)
		if reqErr == nil {
			return a.output(cmd, "", []byte(renderRequest(req)))
		}
		a.log.Debugf("%s is not a certificate request: %v", args[0], reqErr)

		bundle, err := x509certs.DecodeBundle(data)
		if err != nil {
			return fmt.Errorf("%s: neither a certificate request nor certificates: %w", args[0], err)
		}
		return a.output(cmd, "", []byte(x509chain.FromBundle(bundle, a.version).RenderTable(nil)))
	}

	return cmd
}
