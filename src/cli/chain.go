// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	x509certs "github.com/slcs/org.glite.slcs.common/src/internal/x509/certs"
	x509chain "github.com/slcs/org.glite.slcs.common/src/internal/x509/chain"
)

const defaultTLSPort = 443

// chainSource holds the flags that select where a chain comes from.
type chainSource struct {
	remote  string
	timeout time.Duration
}

func (s *chainSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.remote, "remote", "r", "", "read the chain presented by HOST[:PORT] instead of a file")
	cmd.Flags().DurationVar(&s.timeout, "timeout", 10*time.Second, "network timeout")
}

// load returns the chain from --remote or from the file in args.
func (s *chainSource) load(a *app, cmd *cobra.Command, args []string) (*x509chain.Chain, error) {
	if s.remote != "" {
		host, port, err := splitHostPort(s.remote)
		if err != nil {
			return nil, err
		}
		a.log.Debugf("connecting to %s:%d", host, port)
		return x509chain.FetchRemoteChain(cmd.Context(), host, port, s.timeout, a.version)
	}

	if len(args) == 0 {
		return nil, ErrInputFileRequired
	}
	data, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return nil, err
	}
	bundle, err := x509certs.DecodeBundle(data)
	if err != nil {
		return nil, err
	}
	ch := x509chain.FromBundle(bundle, a.version)
	ch.HTTPConfig.Timeout = s.timeout
	return ch, nil
}

func splitHostPort(hostport string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, defaultTLSPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in %q", hostport)
	}
	return host, port, nil
}

func (a *app) chainCommand() *cobra.Command {
	var (
		src              chainSource
		outputFile       string
		intermediateOnly bool
		derFormat        bool
		complete         bool
		format           string
	)

	cmd := &cobra.Command{
		Use:   "chain [FILE]",
		Short: "Print, complete or convert a certificate chain",
		Long: "Read an issued certificate and its chain from a PEM, DER or PKCS#7 file or from a TLS server, " +
			"optionally download missing issuers through their AIA URLs, and write the result.",
		Args: cobra.MaximumNArgs(1),
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().BoolVarP(&intermediateOnly, "intermediate-only", "i", false, "output intermediate certificates only")
	cmd.Flags().BoolVarP(&derFormat, "der", "d", false, "output DER format")
	cmd.Flags().BoolVar(&complete, "complete", false, "download missing issuers through AIA URLs")
	cmd.Flags().StringVarP(&format, "format", "f", "pem", "output format: pem, table, tree or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ch, err := src.load(a, cmd, args)
		if err != nil {
			return err
		}

		if complete {
			if err := ch.FetchCertificate(cmd.Context()); err != nil {
				return err
			}
		}

		certsToOutput := ch.Certificates()
		if intermediateOnly {
			certsToOutput = ch.FilterIntermediates()
		}
		if len(certsToOutput) == 0 {
			return fmt.Errorf("%w: chain has no intermediate certificates", x509certs.ErrNoCertificateFound)
		}
		view := x509chain.New(a.version, certsToOutput[0], certsToOutput[1:]...)

		var outputData []byte
		switch {
		case derFormat:
			outputData = ch.EncodeMultipleDER(certsToOutput)
		case format == "pem":
			outputData = ch.EncodeMultiplePEM(certsToOutput)
		case format == "table":
			outputData = []byte(view.RenderTable(nil))
		case format == "tree":
			outputData = []byte(view.RenderASCIITree(nil))
		case format == "json":
			outputData, err = view.ToVisualizationJSON(nil)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", format)
		}

		return a.output(cmd, outputFile, outputData)
	}

	return cmd
}
