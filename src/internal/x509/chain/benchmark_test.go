// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"crypto/x509"
	"fmt"
	"testing"

	x509chain "github.com/slcs/org.glite.slcs.common/src/internal/x509/chain"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

func BenchmarkEvaluate_Delegate(b *testing.B) {
	p := newPKI(b)
	e := x509chain.NewEvaluator(x509chain.NewSystemDelegate(p.root.cert), nil, logger.Discard)
	chain := p.chain()

	for b.Loop() {
		if _, err := e.Evaluate(chain); err != nil {
			b.Fatalf("Evaluate() error = %v", err)
		}
	}
}

func BenchmarkEvaluate_TrustedIssuerWalk(b *testing.B) {
	p := newPKI(b)
	other := newPKI(b)

	for _, size := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("Issuers_%d", size), func(b *testing.B) {
			certs := make([]*x509.Certificate, 0, size)
			for range size - 1 {
				certs = append(certs, other.intermediate.cert)
			}
			certs = append(certs, p.intermediate.cert)

			e := x509chain.NewEvaluator(&fakeDelegate{serverErr: errRejected},
				x509chain.NewIssuerSet(certs...), logger.Discard)
			chain := p.chain()[:1]

			for b.Loop() {
				if _, err := e.Evaluate(chain); err != nil {
					b.Fatalf("Evaluate() error = %v", err)
				}
			}
		})
	}
}

func BenchmarkEvaluate_Rejected(b *testing.B) {
	p := newPKI(b)
	other := newPKI(b)
	e := x509chain.NewEvaluator(&fakeDelegate{serverErr: errRejected},
		x509chain.NewIssuerSet(other.root.cert, other.intermediate.cert), logger.Discard)
	chain := p.chain()

	for b.Loop() {
		if err := e.CheckServerTrusted(chain); err == nil {
			b.Fatal("CheckServerTrusted() accepted an untrusted chain")
		}
	}
}

func BenchmarkConcurrentEvaluate(b *testing.B) {
	p := newPKI(b)
	e := x509chain.NewEvaluator(&fakeDelegate{serverErr: errRejected},
		x509chain.NewIssuerSet(p.root.cert), logger.Discard)
	chain := p.chain()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := e.CheckServerTrusted(chain); err != nil {
				b.Errorf("CheckServerTrusted() error = %v", err)
			}
		}
	})
}
