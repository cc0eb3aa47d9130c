package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/w3ledger/w3ledger/schema"
	"gopkg.in/h2non/gentleman.v2"
)

// W3Cli calls the gateway's HTTP API.
type W3Cli struct {
	SCli *gentleman.Client
}

func New(gatewayUrl string) *W3Cli {
	return &W3Cli{
		SCli: gentleman.New().URL(gatewayUrl),
	}
}

// RespError is a non-2xx gateway response.
type RespError struct {
	Status  int
	Message string
}

func (e *RespError) Error() string {
	return fmt.Sprintf("resp failed; http code: %d, errMsg: %s", e.Status, e.Message)
}

func (w *W3Cli) FiatTransaction(req schema.FiatTransactionRequest) (*schema.FiatTransactionResponse, error) {
	resp := &schema.FiatTransactionResponse{}
	return resp, w.post("/fiat/transaction", req, resp)
}

func (w *W3Cli) CryptoTransaction(req schema.CryptoTransactionRequest) (*schema.CryptoTransactionResponse, error) {
	resp := &schema.CryptoTransactionResponse{}
	return resp, w.post("/crypto/transaction", req, resp)
}

func (w *W3Cli) Swap(req schema.CryptoSwapRequest) (*schema.CryptoSwapResponse, error) {
	resp := &schema.CryptoSwapResponse{}
	return resp, w.post("/crypto/swap", req, resp)
}

func (w *W3Cli) ProcessTransaction(txType schema.TxKind, data interface{}) (*schema.ProcessTransactionResponse, error) {
	return w.process("/crypto/process", txType, data)
}

func (w *W3Cli) ProcessSwap(txType schema.TxKind, data interface{}) (*schema.ProcessTransactionResponse, error) {
	return w.process("/crypto/swapProcess", txType, data)
}

func (w *W3Cli) Balance(privKey, token string) (string, error) {
	resp := schema.CryptoBalanceResponse{}
	err := w.post("/crypto/balance", schema.CryptoBalanceRequest{SignerPrivateKey: privKey, Chain: token}, &resp)
	return resp.Balance, err
}

func (w *W3Cli) Wallet(privKey string) (string, error) {
	resp := schema.CryptoWalletResponse{}
	err := w.post("/crypto/wallet", schema.CryptoWalletRequest{SignerPrivateKey: privKey}, &resp)
	return resp.Address, err
}

func (w *W3Cli) CreateWallet() (*schema.CryptoWalletCreationResponse, error) {
	resp := &schema.CryptoWalletCreationResponse{}
	return resp, w.post("/crypto/creation/wallet", struct{}{}, resp)
}

func (w *W3Cli) History(address string) ([]schema.TransactionHistoryResponse, error) {
	resp := make([]schema.TransactionHistoryResponse, 0)
	err := w.post("/history/transaction", schema.TransactionHistoryRequest{Address: address}, &resp)
	return resp, err
}

func (w *W3Cli) process(path string, txType schema.TxKind, data interface{}) (*schema.ProcessTransactionResponse, error) {
	by, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	resp := &schema.ProcessTransactionResponse{}
	return resp, w.post(path, schema.ProcessTransactionRequest{TxType: string(txType), Data: by}, resp)
}

type generalResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (w *W3Cli) post(path string, body, out interface{}) error {
	req := w.SCli.Post()
	req.Path(path)
	req.JSON(body)

	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()

	gr := generalResponse{}
	if err := json.Unmarshal(resp.Bytes(), &gr); err != nil {
		if !resp.Ok {
			return &RespError{Status: resp.StatusCode, Message: resp.String()}
		}
		return err
	}
	if !resp.Ok {
		return &RespError{Status: resp.StatusCode, Message: gr.Message}
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return nil
	}
	return json.Unmarshal(gr.Data, out)
}
