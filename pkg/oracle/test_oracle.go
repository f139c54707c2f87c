package oracle

import (
	"context"
	"fmt"
	"sync"
)

// TestOracle bypasses real verification and transfer entirely — it
// always accepts proofs (once each, for replay-protection testing)
// and always "sends" successfully. Used when the server runs with
// test-mode configured; the engines and scheduler remain authoritative
// regardless.
type TestOracle struct {
	mu   sync.Mutex
	used map[string]bool
	refN int
}

var _ Oracle = (*TestOracle)(nil)

func NewTestOracle() *TestOracle {
	return &TestOracle{used: make(map[string]bool)}
}

func (o *TestOracle) VerifyInbound(ctx context.Context, proofRef string, expectedAmount int64) (VerifyResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.used[proofRef] {
		return VerifyResult{}, fmt.Errorf("proof-replay: %s", proofRef)
	}
	o.used[proofRef] = true
	return VerifyResult{Received: expectedAmount}, nil
}

func (o *TestOracle) SendOutbound(ctx context.Context, destination string, amount int64) (SendResult, error) {
	o.mu.Lock()
	o.refN++
	ref := fmt.Sprintf("test-send-%d", o.refN)
	o.mu.Unlock()
	return SendResult{Ref: ref}, nil
}
