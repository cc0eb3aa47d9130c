package circle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
	"gopkg.in/h2non/gentleman.v2"
)

var log = common.NewLog("circle")

const (
	DefaultBaseUrl = "https://api-sandbox.circle.com"

	currencyUSD      = "USD"
	sourceWallet     = "wallet"
	destBlockchain   = "blockchain"
	pathConfig       = "/v1/configuration"
	pathTransfers    = "/v1/transfers"
	jsonMasterWallet = "data.payments.masterWalletId"
)

type Source struct {
	Type string `json:"type"`
	Id   string `json:"id"`
}

type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type Destination struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

type TransferRequest struct {
	IdempotencyKey string      `json:"idempotencyKey"`
	Source         Source      `json:"source"`
	Amount         Money       `json:"amount"`
	Destination    Destination `json:"destination"`
}

// Receipt is what Circle reports for an accepted transfer.
type Receipt struct {
	TransferId  string
	Status      string
	Amount      string
	Chain       string
	Destination string
	CreateDate  string
}

// Client pays out from the Circle Mint master wallet.
type Client struct {
	SCli   *gentleman.Client
	apiKey string
}

func New(baseUrl, apiKey string) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	cli := gentleman.New().URL(strings.TrimSuffix(baseUrl, "/"))
	cli.SetHeader("Authorization", "Bearer "+apiKey)
	cli.SetHeader("Accept", "application/json")
	return &Client{SCli: cli, apiKey: apiKey}
}

func (c *Client) MasterWalletId() (string, error) {
	req := c.SCli.Get()
	req.Path(pathConfig)
	resp, err := req.Send()
	if err != nil {
		return "", fmt.Errorf("%w: %v", schema.ErrProviderFailed, err)
	}
	defer resp.Close()
	if !resp.Ok {
		return "", fmt.Errorf("%w: configuration http code: %d, errMsg: %s", schema.ErrProviderFailed, resp.StatusCode, resp.String())
	}
	id := gjson.GetBytes(resp.Bytes(), jsonMasterWallet).String()
	if id == "" {
		return "", fmt.Errorf("%w: master wallet id missing", schema.ErrProviderFailed)
	}
	return id, nil
}

// Transfer sends amount USD worth of USDC to destination on chain. Every call uses a fresh
// idempotency key, so a retried call is a new transfer.
func (c *Client) Transfer(amount, chain, destination string) (*Receipt, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !amt.IsPositive() {
		return nil, fmt.Errorf("%w: %q", schema.ErrInvalidAmount, amount)
	}
	if strings.TrimSpace(destination) == "" {
		return nil, fmt.Errorf("%w: empty destination", schema.ErrInvalidAddress)
	}
	if strings.TrimSpace(chain) == "" {
		return nil, fmt.Errorf("%w: empty chain", schema.ErrValidation)
	}

	walletId, err := c.MasterWalletId()
	if err != nil {
		log.Error("c.MasterWalletId()", "err", err)
		return nil, err
	}
	payload := TransferRequest{
		IdempotencyKey: uuid.New().String(),
		Source:         Source{Type: sourceWallet, Id: walletId},
		Amount:         Money{Amount: amt.StringFixed(2), Currency: currencyUSD},
		Destination:    Destination{Type: destBlockchain, Address: destination, Chain: chain},
	}

	req := c.SCli.Post()
	req.Path(pathTransfers)
	req.JSON(payload)
	resp, err := req.Send()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrProviderFailed, err)
	}
	defer resp.Close()
	body := resp.Bytes()
	if !resp.Ok {
		log.Error("circle transfer failed", "code", resp.StatusCode, "body", string(body), "idempotencyKey", payload.IdempotencyKey)
		return nil, fmt.Errorf("%w: transfer http code: %d, errMsg: %s", schema.ErrProviderFailed, resp.StatusCode, gjson.GetBytes(body, "message").String())
	}

	data := gjson.GetBytes(body, "data")
	return &Receipt{
		TransferId:  data.Get("id").String(),
		Status:      data.Get("status").String(),
		Amount:      data.Get("amount.amount").String(),
		Chain:       data.Get("destination.chain").String(),
		Destination: data.Get("destination.address").String(),
		CreateDate:  data.Get("createDate").String(),
	}, nil
}
