// Package coordinator implements the HTTP+JSON client for the rendezvous
// server: signup, broadcast, point-to-point send, and polling.
package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/pkg/tsslog"
)

// PollInterval is the fixed cadence at which the client re-queries the
// coordinator for missing peer payloads. No backoff: a rendezvous session
// is short-lived enough that constant-rate polling beats the complexity of
// exponential backoff.
const PollInterval = 25 * time.Millisecond

// Purpose distinguishes a keygen signup from a signing signup; the
// coordinator partitions pending signups by (purpose, curve, threshold,
// parties).
type Purpose string

const (
	PurposeKeygen Purpose = "keygen"
	PurposeSign   Purpose = "sign"
)

// Client talks to a single rendezvous coordinator for the lifetime of one
// protocol session. It is stateless across rounds; all ordering is carried
// by the (session, round) key embedded in every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessionUUID string
	partyNumber int
	n           int
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type signupRequest struct {
	Purpose   Purpose `json:"purpose"`
	Curve     string  `json:"curve"`
	Threshold int     `json:"threshold"`
	Parties   int     `json:"parties"`
}

type signupResponse struct {
	Number int    `json:"number"`
	UUID   string `json:"uuid"`
}

// Signup blocks until n parties have signed up for the same (purpose,
// curve, threshold, parties) tuple, then records the assigned party number
// and session uuid for use by every later call on this client.
func (c *Client) Signup(ctx context.Context, purpose Purpose, curve string, threshold, parties int) (int, string, error) {
	endpoint := "/signupkeygen"
	if purpose == PurposeSign {
		endpoint = "/signupsign"
	}
	var resp signupResponse
	if err := c.postJSON(ctx, endpoint, signupRequest{
		Purpose:   purpose,
		Curve:     curve,
		Threshold: threshold,
		Parties:   parties,
	}, &resp); err != nil {
		return 0, "", errors.Wrap(err, "coordinator: signup")
	}
	c.partyNumber = resp.Number
	c.sessionUUID = resp.UUID
	c.n = parties
	return resp.Number, resp.UUID, nil
}

// PartyNumber returns the 1-based party number assigned at Signup.
func (c *Client) PartyNumber() int { return c.partyNumber }

// SessionUUID returns the session uuid assigned at Signup.
func (c *Client) SessionUUID() string { return c.sessionUUID }

type setRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type getRequest struct {
	Key string `json:"key"`
}

type getResponse struct {
	Value string `json:"value"`
}

const notFound = "not_found"

// Broadcast publishes payload for round within this session. It returns as
// soon as the coordinator has stored it; it does not wait for peers.
func (c *Client) Broadcast(ctx context.Context, round string, payload string) error {
	key := fmt.Sprintf("%s-%d-%s", c.sessionUUID, c.partyNumber, round)
	return c.set(ctx, key, payload)
}

// SendP2P sends payload to a single destination party for round.
func (c *Client) SendP2P(ctx context.Context, dest int, round string, payload string) error {
	key := fmt.Sprintf("%s-%d-%d-%s", c.sessionUUID, c.partyNumber, dest, round)
	return c.set(ctx, key, payload)
}

func (c *Client) set(ctx context.Context, key, value string) error {
	var resp struct{}
	return c.postJSON(ctx, "/set", setRequest{Key: key, Value: value}, &resp)
}

func (c *Client) get(ctx context.Context, key string) (string, bool, error) {
	var resp getResponse
	if err := c.postJSON(ctx, "/get", getRequest{Key: key}, &resp); err != nil {
		return "", false, err
	}
	if resp.Value == notFound || resp.Value == "" {
		return "", false, nil
	}
	return resp.Value, true, nil
}

// PollForBroadcasts polls /get for every other party's broadcast of round
// until all n-1 have arrived, returned in ascending sender-index order.
func (c *Client) PollForBroadcasts(ctx context.Context, round string) ([]string, error) {
	return c.pollPeers(ctx, func(sender int) string {
		return fmt.Sprintf("%s-%d-%s", c.sessionUUID, sender, round)
	})
}

// PollForP2P polls /get for every other party's point-to-point message to
// this party for round, until all n-1 have arrived.
func (c *Client) PollForP2P(ctx context.Context, round string) ([]string, error) {
	self := c.partyNumber
	return c.pollPeers(ctx, func(sender int) string {
		return fmt.Sprintf("%s-%d-%d-%s", c.sessionUUID, sender, self, round)
	})
}

func (c *Client) pollPeers(ctx context.Context, keyFor func(sender int) string) ([]string, error) {
	senders := make([]int, 0, c.n-1)
	for i := 1; i <= c.n; i++ {
		if i == c.partyNumber {
			continue
		}
		senders = append(senders, i)
	}
	sort.Ints(senders)

	found := make(map[int]string, len(senders))
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		for _, s := range senders {
			if _, ok := found[s]; ok {
				continue
			}
			val, ok, err := c.get(ctx, keyFor(s))
			if err != nil {
				return nil, err
			}
			if ok {
				found[s] = val
			}
		}
		if len(found) == len(senders) {
			out := make([]string, len(senders))
			for i, s := range senders {
				out[i] = found[s]
			}
			return out, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "coordinator: poll canceled")
		case <-ticker.C:
		}
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "coordinator: marshaling request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return errors.Wrap(err, "coordinator: building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "coordinator: request to %s failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("coordinator: %s returned status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "coordinator: decoding response from %s", path)
	}
	tsslog.Logger.Debugf("coordinator: %s ok", path)
	return nil
}
