package arweave

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/everFinance/goar"
	"github.com/everFinance/goar/types"
	"github.com/everFinance/goether"
	"github.com/tidwall/gjson"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
)

var log = common.NewLog("arweave")

const (
	AppName = "w3ledger"

	DefaultRequestTimeout = 5 * time.Second
)

// Archiver mirrors recorded blobs to an arseeding node as signed bundle items.
type Archiver struct {
	ItemSigner *goar.ItemSigner
	SCli       *gentleman.Client
}

// New builds an Archiver. A zero reqTimeout means DefaultRequestTimeout.
func New(privKey, arseedUrl string, reqTimeout time.Duration) (*Archiver, error) {
	if reqTimeout <= 0 {
		reqTimeout = DefaultRequestTimeout
	}
	eccSigner, err := goether.NewSigner(privKey)
	if err != nil {
		return nil, err
	}
	itemSigner, err := goar.NewItemSigner(eccSigner)
	if err != nil {
		return nil, err
	}
	cli := gentleman.New().URL(arseedUrl)
	cli.Use(timeout.Request(reqTimeout))
	return &Archiver{
		ItemSigner: itemSigner,
		SCli:       cli,
	}, nil
}

// Archive signs blob data as a bundle item and posts it. Returns the item id.
func (a *Archiver) Archive(blob schema.Blob, kind schema.TxKind, height uint64) (string, error) {
	item, err := a.ItemSigner.CreateAndSignItem(blob.Data, "", "", []types.Tag{
		{Name: "App-Name", Value: AppName},
		{Name: "Tx-Type", Value: string(kind)},
		{Name: "Namespace", Value: blob.Namespace.String()},
		{Name: "Height", Value: strconv.FormatUint(height, 10)},
	})
	if err != nil {
		return "", err
	}

	req := a.SCli.Post()
	req.Path("/bundle/tx")
	req.SetHeader("Content-Type", "application/octet-stream")
	req.Body(bytes.NewReader(item.ItemBinary))

	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", fmt.Errorf("send to bundler request failed; http code: %d, errMsg:%s", resp.StatusCode, resp.String())
	}
	if id := gjson.GetBytes(resp.Bytes(), "itemId").String(); id != "" && id != item.Id {
		log.Warn("bundler returned a different item id", "itemId", item.Id, "respItemId", id)
	}
	return item.Id, nil
}
