package w3ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/w3ledger/w3ledger/chain"
	"github.com/w3ledger/w3ledger/dex"
	"github.com/w3ledger/w3ledger/schema"
)

const (
	nativeDecimals = 18

	// owner fields of client-executed records
	ownerTransfer = "sender_address"
	ownerSwap     = "address"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FiatTransaction pays out through the fiat provider and records the transfer under the destination.
func (w *W3Ledger) FiatTransaction(ctx context.Context, req schema.FiatTransactionRequest) (*schema.FiatTransactionResponse, error) {
	receipt, err := w.payment.Transfer(req.Amount, req.Chain, req.DestinationAddress)
	if err != nil {
		return nil, err
	}
	resp := &schema.FiatTransactionResponse{
		TransferId:       receipt.TransferId,
		Status:           receipt.Status,
		RecipientAddress: receipt.Destination,
		Amount:           receipt.Amount,
		Chain:            receipt.Chain,
		Timestamp:        timestamp(),
	}
	if _, err := w.record(ctx, resp.RecipientAddress, schema.FiatTransfer, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// CryptoTransaction sends an erc20 transfer, waits for its receipt and records it under the sender.
func (w *W3Ledger) CryptoTransaction(ctx context.Context, req schema.CryptoTransactionRequest) (*schema.CryptoTransactionResponse, error) {
	tok := w.dex.Registry().Classify(req.Chain)
	if tok.Class != dex.ERC20 && tok.Class != dex.WrappedNative {
		return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedToken, req.Chain)
	}
	recipient, err := chain.ParseAddress(req.RecipientAddress)
	if err != nil {
		return nil, err
	}
	signer, err := w.signers.Signer(ctx, req.SenderPrivateKey)
	if err != nil {
		return nil, err
	}
	decimals, err := signer.Decimals(ctx, tok.Address)
	if err != nil {
		return nil, err
	}
	amount, err := chain.ToBaseUnits(req.Amount, decimals)
	if err != nil {
		return nil, err
	}
	tx, err := signer.Send(ctx, tok.Address, nil, "transfer", recipient, amount)
	if err != nil {
		return nil, err
	}
	if _, err := signer.WaitMined(ctx, tx); err != nil {
		log.Error("signer.WaitMined(ctx,tx)", "err", err, "hash", tx.Hash().Hex())
		return nil, err
	}

	resp := &schema.CryptoTransactionResponse{
		TransactionHash:  tx.Hash().Hex(),
		SenderAddress:    chain.FormatAddress(signer.Address()),
		RecipientAddress: chain.FormatAddress(recipient),
		Amount:           req.Amount,
		Chain:            tok.Symbol,
		Timestamp:        timestamp(),
	}
	if _, err := w.record(ctx, resp.SenderAddress, schema.CryptoTransfer, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Swap executes a router swap and records it under the signer.
func (w *W3Ledger) Swap(ctx context.Context, req schema.CryptoSwapRequest) (*schema.CryptoSwapResponse, error) {
	signer, err := w.signers.Signer(ctx, req.SignerPrivateKey)
	if err != nil {
		return nil, err
	}
	res, err := w.dex.ExecuteSwap(ctx, signer, req.FromToken, req.ToToken, req.Amount)
	if err != nil {
		return nil, err
	}

	path := make([]string, 0, len(res.Quote.Path))
	for _, p := range res.Quote.Path {
		path = append(path, chain.FormatAddress(p))
	}
	resp := &schema.CryptoSwapResponse{
		TransactionHash: res.TxHash.Hex(),
		Address:         chain.FormatAddress(signer.Address()),
		AmountIn:        req.Amount,
		FromToken:       strings.ToLower(req.FromToken),
		ToToken:         strings.ToLower(req.ToToken),
		Method:          res.Method.String(),
		Quote: schema.SwapQuote{
			AmountIn:     res.Quote.AmountIn.String(),
			AmountOutMin: res.Quote.AmountOutMin.String(),
			Path:         path,
		},
		Timestamp: timestamp(),
	}
	if _, err := w.record(ctx, resp.Address, schema.Swap, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Balance returns the signer's native balance for "eth", otherwise its token balance.
func (w *W3Ledger) Balance(ctx context.Context, req schema.CryptoBalanceRequest) (*schema.CryptoBalanceResponse, error) {
	signer, err := w.signers.Signer(ctx, req.SignerPrivateKey)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(req.Chain), dex.SymbolETH) {
		bal, err := signer.Balance(ctx)
		if err != nil {
			return nil, err
		}
		return &schema.CryptoBalanceResponse{Balance: chain.FromBaseUnits(bal, nativeDecimals)}, nil
	}

	tok := w.dex.Registry().Classify(req.Chain)
	if tok.Class != dex.ERC20 && tok.Class != dex.WrappedNative {
		return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedToken, req.Chain)
	}
	decimals, err := signer.Decimals(ctx, tok.Address)
	if err != nil {
		return nil, err
	}
	bal, err := signer.TokenBalance(ctx, tok.Address)
	if err != nil {
		return nil, err
	}
	return &schema.CryptoBalanceResponse{Balance: chain.FromBaseUnits(bal, decimals)}, nil
}

func (w *W3Ledger) Wallet(req schema.CryptoWalletRequest) (*schema.CryptoWalletResponse, error) {
	addr, err := chain.WalletAddress(req.SignerPrivateKey)
	if err != nil {
		return nil, err
	}
	return &schema.CryptoWalletResponse{Address: addr}, nil
}

func (w *W3Ledger) CreateWallet() (*schema.CryptoWalletCreationResponse, error) {
	addr, priv, err := chain.GenerateWallet()
	if err != nil {
		return nil, err
	}
	return &schema.CryptoWalletCreationResponse{Address: addr, PrivateKey: priv}, nil
}

// ProcessTransaction records a transfer the client executed itself, owned by data.sender_address.
func (w *W3Ledger) ProcessTransaction(ctx context.Context, req schema.ProcessTransactionRequest) (*schema.ProcessTransactionResponse, error) {
	return w.process(ctx, req, ownerTransfer)
}

// ProcessSwap records a swap the client executed itself, owned by data.address.
func (w *W3Ledger) ProcessSwap(ctx context.Context, req schema.ProcessTransactionRequest) (*schema.ProcessTransactionResponse, error) {
	return w.process(ctx, req, ownerSwap)
}

func (w *W3Ledger) process(ctx context.Context, req schema.ProcessTransactionRequest, ownerField string) (*schema.ProcessTransactionResponse, error) {
	kind, err := schema.ParseTxKind(req.TxType)
	if err != nil {
		return nil, err
	}
	owner := gjson.GetBytes(req.Data, ownerField)
	if owner.Type != gjson.String || owner.String() == "" {
		return nil, fmt.Errorf("%w: data.%s is required", schema.ErrValidation, ownerField)
	}
	address := NormalizeAddress(owner.String())
	height, err := w.record(ctx, address, kind, req.Data)
	if err != nil {
		return nil, err
	}
	return &schema.ProcessTransactionResponse{Address: address, Height: height, TxType: kind}, nil
}

func (w *W3Ledger) History(ctx context.Context, req schema.TransactionHistoryRequest) ([]schema.TransactionHistoryResponse, error) {
	records, err := w.GetHistory(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	res := make([]schema.TransactionHistoryResponse, 0, len(records))
	for _, r := range records {
		res = append(res, schema.TransactionHistoryResponse{TxType: r.Kind, Data: r.Data})
	}
	return res, nil
}

func (w *W3Ledger) record(ctx context.Context, address string, kind schema.TxKind, payload interface{}) (uint64, error) {
	record, err := schema.NewTransactionRecord(kind, payload)
	if err != nil {
		return 0, err
	}
	return w.RecordTransaction(ctx, address, record)
}
