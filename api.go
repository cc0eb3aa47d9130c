package w3ledger

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

const (
	limitPerMinute = 600
	msgSuccess     = "success"
)

func (w *W3Ledger) runAPI(port string) {
	w.registerRoutes()
	if err := w.engine.Run(port); err != nil {
		panic(err)
	}
}

func (w *W3Ledger) registerRoutes() {
	r := w.engine
	r.Use(common.CORSMiddleware())
	v1 := r.Group("/")
	{
		v1.Use(common.LimiterMiddleware(limitPerMinute, "M", nil))
		v1.POST("/fiat/transaction", w.fiatTransaction)
		v1.POST("/crypto/transaction", w.cryptoTransaction)
		v1.POST("/crypto/swap", w.cryptoSwap)
		v1.POST("/crypto/process", w.processTransaction)
		v1.POST("/crypto/swapProcess", w.processSwap)
		v1.POST("/crypto/balance", w.cryptoBalance)
		v1.POST("/crypto/wallet", w.cryptoWallet)
		v1.POST("/crypto/creation/wallet", w.createWallet)
		v1.POST("/history/transaction", w.transactionHistory)
	}
}

func (w *W3Ledger) fiatTransaction(c *gin.Context) {
	req := schema.FiatTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.FiatTransaction(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) cryptoTransaction(c *gin.Context) {
	req := schema.CryptoTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.CryptoTransaction(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) cryptoSwap(c *gin.Context) {
	req := schema.CryptoSwapRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.Swap(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) processTransaction(c *gin.Context) {
	req := schema.ProcessTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.ProcessTransaction(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) processSwap(c *gin.Context) {
	req := schema.ProcessTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.ProcessSwap(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) cryptoBalance(c *gin.Context) {
	req := schema.CryptoBalanceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.Balance(c.Request.Context(), req)
	respond(c, resp, err)
}

func (w *W3Ledger) cryptoWallet(c *gin.Context) {
	req := schema.CryptoWalletRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.Wallet(req)
	respond(c, resp, err)
}

func (w *W3Ledger) createWallet(c *gin.Context) {
	resp, err := w.CreateWallet()
	respond(c, resp, err)
}

func (w *W3Ledger) transactionHistory(c *gin.Context) {
	req := schema.TransactionHistoryRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, badRequest(err), nil)
		return
	}
	resp, err := w.History(c.Request.Context(), req)
	respond(c, resp, err)
}

func badRequest(err error) error {
	return errors.Join(schema.ErrValidation, err)
}

// respond keeps data on failure when the operation already happened, e.g. a mined transfer whose record failed.
func respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		errorResponse(c, err, data)
		return
	}
	c.JSON(http.StatusOK, schema.GeneralResponse{
		Status:  http.StatusOK,
		Message: msgSuccess,
		Data:    data,
	})
}

func errorResponse(c *gin.Context, err error, data interface{}) {
	if isNil(data) {
		data = nil
	}
	code := statusCode(err)
	c.JSON(code, schema.GeneralResponse{
		Status:  code,
		Message: err.Error(),
		Data:    data,
	})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, schema.ErrValidation),
		errors.Is(err, schema.ErrEncoding),
		errors.Is(err, schema.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, schema.ErrStorage):
		return http.StatusServiceUnavailable
	case errors.Is(err, schema.ErrNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
