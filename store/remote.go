package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careermatrix/errs"
	"careermatrix/matrix"
)

const remoteTimeout = 15 * time.Second

// Remote is a Store backed by the template HTTP API.
type Remote struct {
	base   *url.URL
	client *http.Client
}

// NewRemote creates a client for the server at baseURL. A nil client uses
// one with a request timeout.
func NewRemote(baseURL string, client *http.Client) (*Remote, error) {
	if baseURL == "" {
		return nil, errs.E(errs.Op("store.NewRemote"), errs.KindInvalid, "server URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errs.E(errs.Op("store.NewRemote"), errs.KindInvalid, err)
	}
	if client == nil {
		client = &http.Client{Timeout: remoteTimeout}
	}
	return &Remote{base: u, client: client}, nil
}

func (r *Remote) endpoint(segments ...string) string {
	u := *r.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/templates"
	for _, s := range segments {
		u.Path += "/" + url.PathEscape(s)
	}
	return u.String()
}

// do sends a request and decodes a JSON response into out. Non-2xx responses
// become errors: 404 maps to KindNotFound, 400 to KindInvalid, anything else
// to KindPersistenceFailure.
func (r *Remote) do(ctx context.Context, op errs.Op, method, endpoint, id string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.Persistence(op, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return errs.Persistence(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errs.Persistence(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errs.NotFound(op, "template", id)
		case http.StatusBadRequest:
			return errs.E(op, errs.KindInvalid, e.Error)
		default:
			return errs.Persistence(op, fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error))
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Persistence(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// Load fetches a template.
func (r *Remote) Load(ctx context.Context, id string) (*matrix.Template, error) {
	var t matrix.Template
	if err := r.do(ctx, "store.Load", http.MethodGet, r.endpoint(id), id, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save uploads the axes and matrix of a template.
func (r *Remote) Save(ctx context.Context, id string, axes matrix.Axes, snap matrix.Snapshot) (int, error) {
	var resp SaveResponse
	req := SaveRequest{Axes: axes, Matrix: snap}
	if err := r.do(ctx, "store.Save", http.MethodPut, r.endpoint(id, "matrix"), id, req, &resp); err != nil {
		return 0, err
	}
	return resp.Revision, nil
}

// List fetches template metadata.
func (r *Remote) List(ctx context.Context) ([]matrix.TemplateInfo, error) {
	var infos []matrix.TemplateInfo
	if err := r.do(ctx, "store.List", http.MethodGet, r.endpoint(), "", nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Create adds a template on the server.
func (r *Remote) Create(ctx context.Context, info matrix.TemplateInfo, axes matrix.Axes) (string, error) {
	var t matrix.Template
	req := CreateRequest{TemplateInfo: info, Axes: &axes}
	if err := r.do(ctx, "store.Create", http.MethodPost, r.endpoint(), info.ID, req, &t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Watch subscribes to the save events of a template. Events are delivered
// on the returned channel until ctx is done or the stream ends, at which
// point the channel is closed.
func (r *Remote) Watch(ctx context.Context, id string) (<-chan SaveEvent, error) {
	const op errs.Op = "store.Watch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(id, "events"), nil)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives the request timeout of r.client.
	client := *r.client
	client.Timeout = 0
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, errs.NotFound(op, "template", id)
		}
		return nil, errs.Persistence(op, fmt.Errorf("server returned %d", resp.StatusCode))
	}

	ch := make(chan SaveEvent, 8)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			data, ok := strings.CutPrefix(sc.Text(), "data: ")
			if !ok {
				continue
			}
			var ev SaveEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
