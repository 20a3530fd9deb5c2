// Package api talks to a remote workspace service: it downloads and
// uploads workspaces and manages the workspace lock. Every request is
// signed with an HMAC-SHA256 digest of the API secret.
package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Benny93/c4-go/internal/storage"
	"github.com/Benny93/c4-go/workspace"
)

const applicationJSON = "application/json; charset=UTF-8"

// ErrLockFailed is returned by WithLock when the service refuses to lock
// or unlock the workspace.
var ErrLockFailed = errors.New("workspace lock failed")

// ClientError reports a request the service answered with an error status.
type ClientError struct {
	Op          string
	WorkspaceID int64
	StatusCode  int
	Status      string
	Message     string
}

func (e *ClientError) Error() string {
	msg := fmt.Sprintf("failed to %s workspace %d: HTTP %s", e.Op, e.WorkspaceID, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Archiver keeps a copy of every downloaded workspace document.
// storage.ArchiveBackend implementations satisfy it.
type Archiver interface {
	Store(ctx context.Context, workspaceID int64, payload []byte) (storage.Snapshot, error)
}

// apiResponse is the body of lock, unlock and failed update responses.
type apiResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Revision int64  `json:"revision,omitempty"`
}

// Client reads and writes one remote workspace.
type Client struct {
	// MergeFromRemote makes PutWorkspace fetch the remote workspace first
	// and copy its diagram layout into the workspace being uploaded.
	MergeFromRemote bool

	settings Settings
	baseURL  *url.URL
	http     *http.Client
	archive  Archiver
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithArchive replaces the default gzip file archive in the settings'
// archive location.
func WithArchive(a Archiver) Option {
	return func(c *Client) { c.archive = a }
}

// WithLogger sets the logger for request and lock diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the time source used for nonces and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for the workspace named in s.
func NewClient(s Settings, opts ...Option) (*Client, error) {
	base, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", s.URL, err)
	}
	c := &Client{
		MergeFromRemote: true,
		settings:        s,
		baseURL:         base,
		http:            http.DefaultClient,
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.archive == nil {
		fb := storage.NewFileBackend()
		if err := fb.Initialize(s.WorkspaceArchiveLocation, false); err != nil {
			return nil, err
		}
		c.archive = fb
	}
	return c, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(url=%s, workspace_id=%d)", c.settings.URL, c.settings.WorkspaceID)
}

// GetWorkspace downloads the remote workspace, archives the raw document
// and returns it hydrated.
func (c *Client) GetWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	resp, body, err := c.do(ctx, http.MethodGet, c.workspacePath(), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.clientError("retrieve", resp, body)
	}

	s, err := c.archive.Store(ctx, c.settings.WorkspaceID, body)
	if err != nil {
		return nil, fmt.Errorf("archiving workspace %d: %w", c.settings.WorkspaceID, err)
	}
	c.logger.Debug("archived workspace", "workspace", c.settings.WorkspaceID, "key", s.Key)

	ws, err := workspace.Loads(body)
	if err != nil {
		return nil, fmt.Errorf("reading workspace %d: %w", c.settings.WorkspaceID, err)
	}
	return ws, nil
}

// PutWorkspace replaces the remote workspace with ws. The uploaded
// document carries no thumbnail and is stamped with the current time,
// user and agent; ws itself only receives the merged layout.
func (c *Client) PutWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	if ws.ID != c.settings.WorkspaceID {
		return fmt.Errorf("workspace id %d does not match the configured workspace %d", ws.ID, c.settings.WorkspaceID)
	}

	if c.MergeFromRemote {
		remote, err := c.GetWorkspace(ctx)
		if err != nil {
			return err
		}
		ws.Views.CopyLayoutInformationFrom(remote.Views)
	}

	upload := *ws
	upload.Thumbnail = ""
	upload.LastModifiedDate = c.now().UTC()
	upload.LastModifiedUser = c.settings.User
	upload.LastModifiedAgent = c.settings.Agent
	doc, err := upload.Dumps()
	if err != nil {
		return err
	}

	resp, body, err := c.do(ctx, http.MethodPut, c.workspacePath(), nil, doc, applicationJSON)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return c.clientError("update", resp, body)
	}
	return nil
}

// LockWorkspace locks the remote workspace for this user and agent. It
// reports false when the service refuses, e.g. because someone else holds
// the lock.
func (c *Client) LockWorkspace(ctx context.Context) (bool, error) {
	return c.lock(ctx, http.MethodPut, "lock")
}

// UnlockWorkspace releases the lock taken by LockWorkspace.
func (c *Client) UnlockWorkspace(ctx context.Context) (bool, error) {
	return c.lock(ctx, http.MethodDelete, "unlock")
}

// WithLock runs fn while holding the workspace lock. A refused lock or
// unlock yields ErrLockFailed; an error from fn takes precedence over a
// failed unlock.
func (c *Client) WithLock(ctx context.Context, fn func(context.Context) error) error {
	ok, err := c.LockWorkspace(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: could not lock workspace %d", ErrLockFailed, c.settings.WorkspaceID)
	}

	fnErr := fn(ctx)
	ok, err = c.UnlockWorkspace(ctx)
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: could not unlock workspace %d", ErrLockFailed, c.settings.WorkspaceID)
	}
	return nil
}

func (c *Client) lock(ctx context.Context, method, op string) (bool, error) {
	query := url.Values{}
	query.Set("user", c.settings.User)
	query.Set("agent", c.settings.Agent)

	resp, body, err := c.do(ctx, method, c.workspacePath()+"/lock", query, nil, "")
	if err != nil {
		return false, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, c.clientError(op, resp, body)
	}

	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return false, fmt.Errorf("decoding %s response: %w", op, err)
	}
	if !r.Success {
		c.logger.Error("workspace lock request refused", "op", op, "workspace", c.settings.WorkspaceID, "message", r.Message)
	}
	return r.Success, nil
}

func (c *Client) workspacePath() string {
	return "/workspace/" + strconv.FormatInt(c.settings.WorkspaceID, 10)
}

// do sends a signed request and returns the response with its body read.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, content []byte, contentType string) (*http.Response, []byte, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.settings.Agent)
	for k, v := range c.authHeaders(method, u, content, contentType) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response of %s %s: %w", method, path, err)
	}
	return resp, body, nil
}

// authHeaders signs a request. The digest covers the verb, the unescaped
// request path with its query, the hex MD5 of the body, the content type
// and a millisecond nonce.
func (c *Client) authHeaders(method string, u *url.URL, content []byte, contentType string) map[string]string {
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if unescaped, err := url.QueryUnescape(path); err == nil {
		path = unescaped
	}

	sum := md5.Sum(content)
	contentMD5 := hex.EncodeToString(sum[:])
	nonce := strconv.FormatInt(c.now().UnixMilli(), 10)
	digest := messageDigest(method, path, contentMD5, contentType, nonce)
	c.logger.Debug("signing request", "digest", digest)

	headers := map[string]string{
		"X-Authorization": c.settings.APIKey + ":" + sign(c.settings.APISecret, digest),
		"Nonce":           nonce,
	}
	if method == http.MethodPut {
		headers["Content-MD5"] = base64.StdEncoding.EncodeToString([]byte(contentMD5))
		headers["Content-Type"] = contentType
	}
	return headers
}

func messageDigest(method, path, contentMD5, contentType, nonce string) string {
	return method + "\n" + path + "\n" + contentMD5 + "\n" + contentType + "\n" + nonce + "\n"
}

// sign returns base64(hex(hmac_sha256(secret, digest))).
func sign(secret, digest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(digest))
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(mac.Sum(nil))))
}

func (c *Client) clientError(op string, resp *http.Response, body []byte) error {
	e := &ClientError{
		Op:          op,
		WorkspaceID: c.settings.WorkspaceID,
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
	}
	var r apiResponse
	if json.Unmarshal(body, &r) == nil {
		e.Message = r.Message
	}
	c.logger.Error("workspace request failed", "op", op, "workspace", e.WorkspaceID, "status", e.StatusCode, "message", e.Message)
	return e
}
