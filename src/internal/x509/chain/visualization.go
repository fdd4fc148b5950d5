// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	x509dn "github.com/slcs/org.glite.slcs.common/src/internal/x509/dn"
)

// RenderASCIITree renders the chain as a tree, marking the certificate that
// decided trust. A nil verdict marks nothing.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree(verdict *Verdict) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i, cert := range ch.Certs {
		connector := "├── "
		if i == len(ch.Certs)-1 {
			connector = "└── "
		}

		fmt.Fprintf(&result, "%s%s (%s)", connector, distinguishedName(cert.RawSubject), ch.getCertificateRole(i))
		if s := trustCell(verdict, i); s != "" {
			fmt.Fprintf(&result, " [%s]", s)
		}
		result.WriteByte('\n')
	}

	return result.String()
}

// RenderTable renders the chain as a markdown table with the role, subject,
// issuer, expiry, key and trust decision of each certificate.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable(verdict *Verdict) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "Key", "Trust"})

	rows := make([][]string, 0, len(ch.Certs))
	for i, cert := range ch.Certs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ch.getCertificateRole(i),
			distinguishedName(cert.RawSubject),
			distinguishedName(cert.RawIssuer),
			cert.NotAfter.Format("2006-01-02"),
			keyDescription(cert),
			trustCell(verdict, i),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToVisualizationJSON converts the chain and its verdict to JSON.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ToVisualizationJSON(verdict *Verdict) ([]byte, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	type CertificateVizData struct {
		Index              int       `json:"index"`
		Role               string    `json:"role"`
		Subject            string    `json:"subject"`
		Issuer             string    `json:"issuer"`
		SerialNumber       string    `json:"serialNumber"`
		SignatureAlgorithm string    `json:"signatureAlgorithm"`
		Key                string    `json:"key"`
		NotBefore          time.Time `json:"notBefore"`
		NotAfter           time.Time `json:"notAfter"`
		IsCA               bool      `json:"isCA"`
		Trust              string    `json:"trust,omitempty"`
	}

	type VisualizationData struct {
		Timestamp    string               `json:"timestamp"`
		ChainLength  int                  `json:"chainLength"`
		Trusted      bool                 `json:"trusted"`
		Source       string               `json:"source,omitempty"`
		Certificates []CertificateVizData `json:"certificates"`
	}

	data := VisualizationData{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ChainLength:  len(ch.Certs),
		Trusted:      verdict != nil,
		Certificates: make([]CertificateVizData, len(ch.Certs)),
	}
	if verdict != nil {
		data.Source = verdict.Source.String()
	}

	for i, cert := range ch.Certs {
		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               ch.getCertificateRole(i),
			Subject:            distinguishedName(cert.RawSubject),
			Issuer:             distinguishedName(cert.RawIssuer),
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			Key:                keyDescription(cert),
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
			Trust:              trustCell(verdict, i),
		}
	}

	return json.MarshalIndent(data, "", "  ")
}

// getCertificateRole describes the certificate at index by its position.
func (ch *Chain) getCertificateRole(index int) string {
	total := len(ch.Certs)
	switch {
	case total == 1 && ch.IsSelfSigned(ch.Certs[0]):
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity Certificate"
	case index == total-1 && ch.IsRootNode(ch.Certs[index]):
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}

func trustCell(verdict *Verdict, index int) string {
	switch {
	case verdict == nil:
		return ""
	case verdict.Source == SourceDelegate:
		return verdict.Source.String()
	case verdict.Index == index:
		return verdict.Source.String()
	default:
		return ""
	}
}

// distinguishedName renders an encoded name, falling back to hex for names
// the codec cannot read.
func distinguishedName(raw []byte) string {
	name, err := x509dn.Unmarshal(raw)
	if err != nil {
		return fmt.Sprintf("#%x", raw)
	}
	return name.String()
}

func keyDescription(cert *x509.Certificate) string {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", pub.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", pub.Curve.Params().BitSize)
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return "unknown"
	}
}
