package w3ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w3ledger/w3ledger/schema"
)

func newTestAPI(t *testing.T) *testLedger {
	w := newTestLedger(t)
	w.registerRoutes()
	return w
}

func post(t *testing.T, w *testLedger, path string, body interface{}) (int, schema.GeneralResponse, json.RawMessage) {
	by, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(by))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	w.engine.ServeHTTP(rec, req)

	resp := schema.GeneralResponse{}
	raw := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	return rec.Code, resp, raw.Data
}

func TestAPI_ProcessAndHistory(t *testing.T) {
	w := newTestAPI(t)

	code, resp, _ := post(t, w, "/crypto/process", map[string]interface{}{
		"tx_type": "CryptoTransfer",
		"data":    map[string]string{"sender_address": testAddr, "amount": "3"},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", resp.Message)

	code, _, data := post(t, w, "/history/transaction", schema.TransactionHistoryRequest{Address: testAddr})
	assert.Equal(t, http.StatusOK, code)
	history := make([]schema.TransactionHistoryResponse, 0)
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, schema.CryptoTransfer, history[0].TxType)
	assert.JSONEq(t, `{"sender_address":"`+testAddr+`","amount":"3"}`, string(history[0].Data))
}

func TestAPI_EmptyHistory(t *testing.T) {
	w := newTestAPI(t)
	code, _, data := post(t, w, "/history/transaction", schema.TransactionHistoryRequest{Address: testAddr})
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(data))
}

func TestAPI_Errors(t *testing.T) {
	w := newTestAPI(t)

	code, resp, _ := post(t, w, "/crypto/balance", schema.CryptoBalanceRequest{SignerPrivateKey: testSignerKey, Chain: "doge"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	code, _, _ = post(t, w, "/history/transaction", schema.TransactionHistoryRequest{Address: "0xAQID"})
	assert.Equal(t, http.StatusBadRequest, code)

	w.idx.fail = true
	code, _, _ = post(t, w, "/history/transaction", schema.TransactionHistoryRequest{Address: testAddr})
	assert.Equal(t, http.StatusServiceUnavailable, code)

	// the transfer already happened, its details are returned with the error
	code, resp, _ = post(t, w, "/crypto/transaction", schema.CryptoTransactionRequest{
		SenderPrivateKey: testSignerKey, RecipientAddress: testAddr, Amount: "1", Chain: "usdc",
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.NotNil(t, resp.Data)

	w.da.failSub = true
	code, resp, _ = post(t, w, "/crypto/process", map[string]interface{}{
		"tx_type": "Swap",
		"data":    map[string]string{"sender_address": testAddr},
	})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Nil(t, resp.Data)
}

func TestAPI_CreateWallet(t *testing.T) {
	w := newTestAPI(t)
	code, _, data := post(t, w, "/crypto/creation/wallet", struct{}{})
	assert.Equal(t, http.StatusOK, code)
	created := schema.CryptoWalletCreationResponse{}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Len(t, created.Address, 42)
	assert.Len(t, created.PrivateKey, 66)
}

func TestStatusCode(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code int
	}{
		{schema.ErrInvalidAmount, http.StatusBadRequest},
		{schema.ErrAddressTooShort, http.StatusBadRequest},
		{schema.ErrUnsupportedPair, http.StatusBadRequest},
		{schema.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{schema.ErrQuoteUnavailable, http.StatusBadGateway},
		{schema.ErrHistoryFetchFailed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.code, statusCode(tc.err), tc.err.Error())
	}
}
