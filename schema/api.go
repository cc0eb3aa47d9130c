package schema

import (
	"encoding/json"
)

type GeneralResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// fiat

type FiatTransactionRequest struct {
	Amount             string `json:"amount"`
	Chain              string `json:"chain"`
	DestinationAddress string `json:"destination_address"`
}

type FiatTransactionResponse struct {
	TransferId       string `json:"transfer_id"`
	Status           string `json:"status"`
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`
	Chain            string `json:"chain"`
	Timestamp        string `json:"timestamp"`
}

// crypto transfer

type CryptoTransactionRequest struct {
	SenderPrivateKey string `json:"sender_private_key"`
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`
	Chain            string `json:"chain"`
}

type CryptoTransactionResponse struct {
	TransactionHash  string `json:"transaction_hash"`
	SenderAddress    string `json:"sender_address"`
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`
	Chain            string `json:"chain"`
	Timestamp        string `json:"timestamp"`
}

// balance & wallet

type CryptoBalanceRequest struct {
	SignerPrivateKey string `json:"signer_private_key"`
	Chain            string `json:"chain"`
}

type CryptoBalanceResponse struct {
	Balance string `json:"balance"`
}

type CryptoWalletRequest struct {
	SignerPrivateKey string `json:"signer_private_key"`
}

type CryptoWalletResponse struct {
	Address string `json:"address"`
}

type CryptoWalletCreationResponse struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}

// swap

type CryptoSwapRequest struct {
	FromToken        string `json:"from_token"`
	ToToken          string `json:"to_token"`
	Amount           string `json:"amount"`
	SignerPrivateKey string `json:"signer_private_key"`
}

type SwapQuote struct {
	AmountIn     string   `json:"amount_in"` // base units
	AmountOutMin string   `json:"amount_out_min"`
	Path         []string `json:"path"`
}

type CryptoSwapResponse struct {
	TransactionHash string    `json:"transaction_hash"`
	Address         string    `json:"address"`
	AmountIn        string    `json:"amount_in"` // human amount as requested
	FromToken       string    `json:"from_token"`
	ToToken         string    `json:"to_token"`
	Method          string    `json:"method"`
	Quote           SwapQuote `json:"quote"`
	Timestamp       string    `json:"timestamp"`
}

// history & external records

type TransactionHistoryRequest struct {
	Address string `json:"address"`
}

type TransactionHistoryResponse struct {
	TxType TxKind          `json:"tx_type"`
	Data   json.RawMessage `json:"data"`
}

// ProcessTransactionRequest records a transaction the client already executed.
type ProcessTransactionRequest struct {
	TxType string          `json:"tx_type"`
	Data   json.RawMessage `json:"data"`
}

type ProcessTransactionResponse struct {
	Address string `json:"address"`
	Height  uint64 `json:"height"`
	TxType  TxKind `json:"tx_type"`
}
