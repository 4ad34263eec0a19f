package hwr

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"

	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

const DefaultEndpoint = "https://cloud.myscript.com/api/v4.0/iink/batch"

var (
	ErrNoContent   = errors.New("no strokes to recognize")
	ErrCredentials = errors.New("HWRT_HWR_APPLICATIONKEY and HWRT_HWR_HMAC are required")
)

// Client signs and sends batch requests.
type Client struct {
	Endpoint       string
	ApplicationKey string
	HMACKey        string
	HTTP           *http.Client
}

// NewClientFromEnv reads the keys from HWRT_HWR_APPLICATIONKEY and
// HWRT_HWR_HMAC.
func NewClientFromEnv() (*Client, error) {
	c := &Client{
		Endpoint:       DefaultEndpoint,
		ApplicationKey: os.Getenv("HWRT_HWR_APPLICATIONKEY"),
		HMACKey:        os.Getenv("HWRT_HWR_HMAC"),
		HTTP:           http.DefaultClient,
	}
	if c.ApplicationKey == "" || c.HMACKey == "" {
		return nil, ErrCredentials
	}
	return c, nil
}

// Sign returns the hex HMAC-SHA512 of data keyed by both keys.
func (c *Client) Sign(data []byte) string {
	mac := hmac.New(sha512.New, []byte(c.ApplicationKey+c.HMACKey))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// Recognize sends h and returns the recognized text.
func (c *Client) Recognize(ctx context.Context, h *handwriting.HandwrittenData, contentType ContentType, lang string) (string, error) {
	in := NewBatchInput(h, contentType, lang)
	if len(in.StrokeGroups[0].Strokes) == 0 {
		return "", ErrNoContent
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	body, err := c.send(ctx, data, contentType.MimeType())
	if err != nil {
		return "", err
	}
	return ExtractText(body), nil
}

func (c *Client) send(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", mimeType+", application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("applicationKey", c.ApplicationKey)
	req.Header.Set("hmac", c.Sign(data))

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	log.Trace().Int("status", res.StatusCode).Int("bytes", len(body)).Msg("hwr response")

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hwr: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}
