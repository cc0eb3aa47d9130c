package celestia

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

var log = common.NewLog("celestia")

const (
	methodBlobSubmit      = "blob.Submit"
	methodBlobGetAll      = "blob.GetAll"
	methodWaitForHeight   = "header.WaitForHeight"
	errBlobNotFoundSubstr = "blob: not found"

	DefaultMinHeight = 2
)

// Client talks to a celestia-node over its JSON-RPC API.
type Client struct {
	rpc *rpc.Client
}

// New dials the node and blocks until it has synced to minHeight; 0 skips the wait.
func New(ctx context.Context, url, authToken string, minHeight uint64) (*Client, error) {
	opts := make([]rpc.ClientOption, 0, 1)
	if authToken != "" {
		opts = append(opts, rpc.WithHeader("Authorization", "Bearer "+authToken))
	}
	c, err := rpc.DialOptions(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	cli := &Client{rpc: c}
	if minHeight > 0 {
		if err := cli.WaitForHeight(ctx, minHeight); err != nil {
			c.Close()
			return nil, err
		}
	}
	log.Info("connect celestia node success", "url", url)
	return cli, nil
}

func (c *Client) WaitForHeight(ctx context.Context, height uint64) error {
	var header json.RawMessage
	if err := c.rpc.CallContext(ctx, &header, methodWaitForHeight, height); err != nil {
		log.Error("c.rpc.CallContext(header.WaitForHeight)", "err", err, "height", height)
		return err
	}
	return nil
}

// Submit returns the height the blobs were included at.
func (c *Client) Submit(ctx context.Context, blobs []schema.Blob) (uint64, error) {
	wire := make([]Blob, 0, len(blobs))
	for _, b := range blobs {
		wire = append(wire, toWire(b))
	}
	var height uint64
	if err := c.rpc.CallContext(ctx, &height, methodBlobSubmit, wire, &SubmitOptions{}); err != nil {
		return 0, err
	}
	return height, nil
}

// GetAll returns the blobs under namespaces at height, nil when there are none.
func (c *Client) GetAll(ctx context.Context, height uint64, namespaces []schema.NamespaceId) ([]schema.Blob, error) {
	nss := make([][]byte, 0, len(namespaces))
	for _, ns := range namespaces {
		nss = append(nss, NamespaceV0(ns))
	}
	var wire []Blob
	if err := c.rpc.CallContext(ctx, &wire, methodBlobGetAll, height, nss); err != nil {
		// older nodes report an empty namespace as an error
		if strings.Contains(err.Error(), errBlobNotFoundSubstr) {
			return nil, nil
		}
		return nil, err
	}
	res := make([]schema.Blob, 0, len(wire))
	for _, w := range wire {
		b, err := fromWire(w)
		if err != nil {
			log.Warn("skip blob with foreign namespace", "height", height, "namespace", w.Namespace)
			continue
		}
		res = append(res, b)
	}
	return res, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}
