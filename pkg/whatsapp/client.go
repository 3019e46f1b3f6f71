package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://graph.facebook.com/v22.0"

// Client sends messages through the WhatsApp Cloud API (Graph API).
type Client interface {
	SendText(ctx context.Context, to, body string) error
	SendDocument(ctx context.Context, to, link, filename, caption string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default Graph API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token         string
	phoneNumberID string
	baseURL       string
	http          *http.Client
}

// NewClient creates a WhatsApp Cloud API client bound to one sender
// phone number ID.
func NewClient(token, phoneNumberID string, opts ...Option) Client {
	c := &httpClient{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// wire types for POST /{phone_number_id}/messages
type sendRequest struct {
	MessagingProduct string        `json:"messaging_product"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             *textBody     `json:"text,omitempty"`
	Document         *documentBody `json:"document,omitempty"`
}

type textBody struct {
	Body string `json:"body"`
}

type documentBody struct {
	Link     string `json:"link"`
	Filename string `json:"filename,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

func (c *httpClient) SendText(ctx context.Context, to, body string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		To:               apiPhone(to),
		Type:             "text",
		Text:             &textBody{Body: body},
	})
}

func (c *httpClient) SendDocument(ctx context.Context, to, link, filename, caption string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		To:               apiPhone(to),
		Type:             "document",
		Document:         &documentBody{Link: link, Filename: filename, Caption: caption},
	})
}

func (c *httpClient) send(ctx context.Context, req sendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return eris.Wrap(err, "whatsapp: marshal request")
	}

	url := c.baseURL + "/" + c.phoneNumberID + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "whatsapp: create request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "whatsapp: send")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return eris.Errorf("whatsapp: unexpected status %d: %s", resp.StatusCode, respBody)
	}

	return nil
}

// apiPhone converts an E.164 number to the bare-digit form the Cloud API
// expects.
func apiPhone(phone string) string {
	return strings.TrimPrefix(phone, "+")
}
