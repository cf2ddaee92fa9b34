package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	"github.com/LumeraProtocol/stakesign/pkg/signer"
	"github.com/LumeraProtocol/stakesign/pkg/staking"
	"github.com/ethereum/go-ethereum/common"
)

// ErrBroadcastDeclined is returned when the confirmation hook refuses to
// broadcast. The signature has been produced and printed by then.
var ErrBroadcastDeclined = errors.New("broadcast declined")

// Request describes one provisioning run.
type Request struct {
	Network             string
	ValidatorsCount     int
	WithdrawalAddress   string
	FundingAddress      string
	FeeRecipientAddress string
	Region              string

	// Broadcast submits the signed transaction after signing.
	Broadcast       bool
	ExplorerBaseURL string
}

// Result is everything a run produced.
type Result struct {
	Transaction  staking.StakingTransaction
	Signature    []byte
	SignatureHex string

	TxHash      string
	ExplorerURL string
}

// ConfirmFunc is asked before broadcasting. Returning false aborts with
// ErrBroadcastDeclined.
type ConfirmFunc func(ctx context.Context, res *Result) (bool, error)

// Workflow creates validators through the staking API and signs the returned
// transaction locally.
type Workflow struct {
	api     StakingAPI
	signer  HashSigner
	out     io.Writer
	confirm ConfirmFunc
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithOutput sets where result lines are printed. Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(w *Workflow) { w.out = out }
}

// WithConfirm sets the pre-broadcast confirmation hook.
func WithConfirm(fn ConfirmFunc) Option {
	return func(w *Workflow) { w.confirm = fn }
}

// New returns a workflow. The signer may be nil for broadcast-only use.
func New(api StakingAPI, s HashSigner, opts ...Option) *Workflow {
	w := &Workflow{api: api, signer: s, out: os.Stdout}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BuildPayload turns a Request into the API body. Empty addresses default to
// the signer address.
func (w *Workflow) BuildPayload(ctx context.Context, req Request) (*staking.CreateValidatorsRequest, error) {
	payload := &staking.CreateValidatorsRequest{
		Network:             strings.TrimSpace(req.Network),
		ValidatorsCount:     req.ValidatorsCount,
		WithdrawalAddress:   strings.TrimSpace(req.WithdrawalAddress),
		FundingAddress:      strings.TrimSpace(req.FundingAddress),
		FeeRecipientAddress: strings.TrimSpace(req.FeeRecipientAddress),
		Region:              strings.TrimSpace(req.Region),
	}

	if w.signer != nil {
		self := w.signer.Address().Hex()
		for _, addr := range []*string{&payload.WithdrawalAddress, &payload.FundingAddress, &payload.FeeRecipientAddress} {
			if *addr == "" {
				*addr = self
			}
		}

		// The funding transaction must come from the signing key
		if common.IsHexAddress(payload.FundingAddress) && common.HexToAddress(payload.FundingAddress) != w.signer.Address() {
			logtrace.Warn(ctx, "Funding address differs from signer address", logtrace.Fields{
				logtrace.FieldModule:  logtrace.ValueProvision,
				"funding_address":     payload.FundingAddress,
				logtrace.FieldAddress: self,
			})
		}
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Run performs the full flow: build and validate the payload, create the
// validators, extract the unsigned transaction, sign its hash and print the
// results. With req.Broadcast set the signed transaction is then submitted.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	if w.signer == nil {
		return nil, fmt.Errorf("no signer configured")
	}

	fields := logtrace.Fields{
		logtrace.FieldMethod:  "Run",
		logtrace.FieldModule:  logtrace.ValueProvision,
		logtrace.FieldNetwork: req.Network,
		logtrace.FieldCount:   req.ValidatorsCount,
	}

	payload, err := w.BuildPayload(ctx, req)
	if err != nil {
		return nil, err
	}

	logtrace.Info(ctx, "Requesting validator creation", fields)
	resp, err := w.api.CreateValidators(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create validators: %w", err)
	}

	tx, err := resp.StakingTransaction()
	if err != nil {
		logtrace.Error(ctx, "Response is missing the staking transaction", logtrace.WithFields(fields, logtrace.Fields{
			logtrace.FieldError: err.Error(),
		}))
		return nil, err
	}

	fmt.Fprintf(w.out, "Unsigned transaction serialized: %s\n", tx.UnsignedTransactionSerialized)
	fmt.Fprintf(w.out, "Unsigned transaction hash: %s\n", tx.UnsignedTransactionHashed)

	sig, err := w.sign(ctx, tx.UnsignedTransactionHashed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Transaction:  tx,
		Signature:    sig,
		SignatureHex: signer.EncodeSignature(sig),
	}
	fmt.Fprintf(w.out, "Signature: %s\n", res.SignatureHex)

	if !req.Broadcast {
		return res, nil
	}

	if w.confirm != nil {
		ok, err := w.confirm(ctx, res)
		if err != nil {
			return res, fmt.Errorf("confirm broadcast: %w", err)
		}
		if !ok {
			return res, ErrBroadcastDeclined
		}
	}

	txHash, explorerURL, err := w.Broadcast(ctx, payload.Network, tx.UnsignedTransactionSerialized, res.SignatureHex, req.ExplorerBaseURL)
	if err != nil {
		return res, err
	}
	res.TxHash = txHash
	res.ExplorerURL = explorerURL

	logtrace.Info(ctx, "Validators created", logtrace.WithFields(fields, logtrace.Fields{
		logtrace.FieldTxHash: txHash,
	}))
	return res, nil
}

// SignHash signs a hex hash and prints the signature line. It is the offline
// half of Run.
func (w *Workflow) SignHash(ctx context.Context, hashHex string) ([]byte, error) {
	if w.signer == nil {
		return nil, fmt.Errorf("no signer configured")
	}
	sig, err := w.sign(ctx, hashHex)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w.out, "Signature: %s\n", signer.EncodeSignature(sig))
	return sig, nil
}

// Broadcast submits an already signed transaction and prints its hash and
// explorer link.
func (w *Workflow) Broadcast(ctx context.Context, network, serialized, signatureHex, explorerBase string) (string, string, error) {
	resp, err := w.api.Broadcast(ctx, &staking.BroadcastRequest{
		Network:                       network,
		Signature:                     signatureHex,
		UnsignedTransactionSerialized: serialized,
	})
	if err != nil {
		return "", "", fmt.Errorf("broadcast: %w", err)
	}

	txHash := resp.Data.TransactionHash
	explorerURL := ExplorerTxURL(explorerBase, network, txHash)

	fmt.Fprintf(w.out, "Transaction hash: %s\n", txHash)
	fmt.Fprintf(w.out, "View transaction on explorer: %s\n", explorerURL)
	return txHash, explorerURL, nil
}

func (w *Workflow) sign(ctx context.Context, hashHex string) ([]byte, error) {
	hash, err := signer.ParseHash(hashHex)
	if err != nil {
		return nil, err
	}

	sig, err := w.signer.SignHash(hash)
	if err != nil {
		return nil, fmt.Errorf("sign transaction hash: %w", err)
	}

	logtrace.Debug(ctx, "Transaction hash signed", logtrace.Fields{
		logtrace.FieldModule:  logtrace.ValueSigner,
		logtrace.FieldHashHex: hashHex,
		logtrace.FieldAddress: w.signer.Address().Hex(),
	})
	return sig, nil
}
