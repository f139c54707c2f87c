package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/decred/slog"
)

// HTTPOracle speaks a small JSON request/response protocol against an
// external payment RPC endpoint. This is the one boundary in the
// module built on plain net/http + encoding/json rather than a
// generated wire-codec library: see DESIGN.md for why protobuf/gRPC
// (the teacher's own oracle transport) isn't reused here.
type HTTPOracle struct {
	baseURL string
	escrow  string
	client  *http.Client
	log     slog.Logger
}

var _ Oracle = (*HTTPOracle)(nil)

// NewHTTPOracle builds an oracle client against baseURL (the
// configured external RPC endpoint) using escrowAddress as the inbound
// credit account to check proofs against.
func NewHTTPOracle(baseURL, escrowAddress string, log slog.Logger) *HTTPOracle {
	return &HTTPOracle{
		baseURL: baseURL,
		escrow:  escrowAddress,
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

type verifyRequest struct {
	ProofRef       string `json:"proofRef"`
	ExpectedAmount int64  `json:"expectedAmount"`
	EscrowAccount  string `json:"escrowAccount"`
}

type verifyResponse struct {
	OK       bool   `json:"ok"`
	Received int64  `json:"received"`
	Error    string `json:"error"`
}

func (o *HTTPOracle) VerifyInbound(ctx context.Context, proofRef string, expectedAmount int64) (VerifyResult, error) {
	reqBody, err := json.Marshal(verifyRequest{ProofRef: proofRef, ExpectedAmount: expectedAmount, EscrowAccount: o.escrow})
	if err != nil {
		return VerifyResult{}, err
	}
	var resp verifyResponse
	if err := o.post(ctx, "/verify", reqBody, &resp); err != nil {
		return VerifyResult{}, err
	}
	if !resp.OK {
		return VerifyResult{}, fmt.Errorf("verify failed: %s", resp.Error)
	}
	minAcceptable := float64(expectedAmount) * InsufficientAmountRatio
	if float64(resp.Received) < minAcceptable {
		return VerifyResult{}, fmt.Errorf("proof-insufficient: received %d, expected at least %.0f", resp.Received, minAcceptable)
	}
	return VerifyResult{Received: resp.Received}, nil
}

type sendRequest struct {
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
}

type sendResponse struct {
	OK    bool   `json:"ok"`
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

func (o *HTTPOracle) SendOutbound(ctx context.Context, destination string, amount int64) (SendResult, error) {
	reqBody, err := json.Marshal(sendRequest{Destination: destination, Amount: amount})
	if err != nil {
		return SendResult{}, err
	}
	var resp sendResponse
	if err := o.post(ctx, "/send", reqBody, &resp); err != nil {
		o.log.Errorf("outbound transfer to %s failed: %v", destination, err)
		return SendResult{}, err
	}
	if !resp.OK {
		o.log.Errorf("outbound transfer to %s rejected: %s", destination, resp.Error)
		return SendResult{}, fmt.Errorf("send failed: %s", resp.Error)
	}
	return SendResult{Ref: resp.Ref}, nil
}

func (o *HTTPOracle) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
