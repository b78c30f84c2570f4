package openwebui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/alexjbarnes/knowledge-sync/internal/errors"
	"github.com/tidwall/gjson"
)

// ClientConfig holds the connection settings for a Client.
type ClientConfig struct {
	// BaseURL of the remote service, scheme included, no trailing slash.
	BaseURL string
	// JWTToken is sent as a bearer token on every request.
	JWTToken string
	// APIKey is carried for completeness; the service authenticates
	// requests with the JWT.
	APIKey string
	// Optional Cloudflare Access service-token credentials.
	CFClientID     string
	CFClientSecret string
	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the knowledge and file endpoints of an Open WebUI
// compatible service. One Client owns one cookie session for the whole
// run; it is not safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	jwtToken       string
	cfClientID     string
	cfClientSecret string
	logger         *slog.Logger

	// cfToken holds the access-gateway token obtained during the
	// re-authentication handshake, sent on subsequent requests.
	cfToken string
}

// NewClient creates an API client. When cfg.HTTPClient is nil a client
// with a fresh cookie jar is used; a supplied client is copied before
// its redirect policy is overridden, so the caller's client is left
// untouched. Redirects are never followed automatically so the
// access-gateway challenge stays observable.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	} else {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	}
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		jwtToken:       cfg.JWTToken,
		cfClientID:     cfg.CFClientID,
		cfClientSecret: cfg.CFClientSecret,
		logger:         logger,
	}
}

// setHeaders applies the session headers to a request. An empty
// contentType leaves Content-Type unset, which matters for multipart
// uploads where the writer supplies its own boundary header.
func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Authorization", "Bearer "+c.jwtToken)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfClientID != "" {
		req.Header.Set("CF-Access-Client-Id", c.cfClientID)
		req.Header.Set("CF-Access-Client-Secret", c.cfClientSecret)
	}
	if c.cfToken != "" {
		req.Header.Set("CF-Access-Token", c.cfToken)
	}
}

// do sends a request and returns the response body. On a redirect to
// the secondary access gateway it runs the re-authentication handshake
// and retries the original request exactly once.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, contentType string) ([]byte, error) {
	send := func() (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		c.setHeaders(req, contentType)
		return c.httpClient.Do(req)
	}

	resp, err := send()
	if err != nil {
		return nil, fmt.Errorf("sending request to %s: %w", endpoint, err)
	}

	if isAccessRedirect(resp) {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.logger.Info("access gateway challenge detected, re-authenticating",
			slog.String("endpoint", endpoint),
		)
		if err := c.reauthenticate(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", endpoint, apperrors.ErrAccessDenied, err)
		}

		resp, err = send()
		if err != nil {
			return nil, fmt.Errorf("retrying request to %s: %w", endpoint, err)
		}
		if isAccessRedirect(resp) {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%s: challenged again after re-authentication: %w", endpoint, apperrors.ErrAccessDenied)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil {
			if msg := apiErr.Detail; msg != "" {
				return nil, fmt.Errorf("%s (%d): %s: %w", endpoint, resp.StatusCode, msg, apperrors.ErrAPIRequest)
			}
			if apiErr.Error != "" {
				return nil, fmt.Errorf("%s (%d): %s: %w", endpoint, resp.StatusCode, apiErr.Error, apperrors.ErrAPIRequest)
			}
		}
		return nil, fmt.Errorf("%s returned status %d: %w", endpoint, resp.StatusCode, apperrors.ErrAPIRequest)
	}

	return respBody, nil
}

// isAccessRedirect reports whether the response is the secondary access
// gateway bouncing the request for an additional credential challenge.
func isAccessRedirect(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return false
	}
	return strings.Contains(resp.Header.Get("Location"), "cloudflareaccess.com")
}

// reauthenticate runs the one-shot access-gateway handshake: fetch a
// token, attempt the certificate handshake, and let resulting cookies
// land in the session jar. Succeeds if either endpoint answers 200.
func (c *Client) reauthenticate(ctx context.Context) error {
	if c.cfClientID == "" || c.cfClientSecret == "" {
		return fmt.Errorf("no access gateway credentials configured")
	}

	tokenOK := false
	body, err := c.gatewayGet(ctx, "/cdn-cgi/access/token")
	if err == nil {
		tokenOK = true
		if token := gjson.GetBytes(body, "token"); token.Exists() && token.Str != "" {
			c.cfToken = token.Str
			c.logger.Debug("obtained access gateway token")
		}
	}

	certsOK := false
	if _, err := c.gatewayGet(ctx, "/cdn-cgi/access/certs"); err == nil {
		certsOK = true
	}

	if !tokenOK && !certsOK {
		return fmt.Errorf("token and certs handshakes both failed")
	}

	c.logger.Info("re-authenticated with access gateway",
		slog.Bool("token", tokenOK),
		slog.Bool("certs", certsOK),
	)
	return nil
}

// gatewayGet fetches an access-gateway endpoint on the service domain,
// returning the body only on a 200 response.
func (c *Client) gatewayGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("CF-Access-Client-Id", c.cfClientID)
	req.Header.Set("CF-Access-Client-Secret", c.cfClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %w", endpoint, resp.StatusCode, apperrors.ErrAPIRequest)
	}
	return body, nil
}

// listEnvelope returns the JSON array from either a bare list response
// or a {"data":[...]} wrapper. The service has been observed returning
// both shapes.
func listEnvelope(endpoint string, body []byte) (gjson.Result, error) {
	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		return parsed, nil
	}
	if data := parsed.Get("data"); data.IsArray() {
		return data, nil
	}
	return gjson.Result{}, fmt.Errorf("%s: no list in response body: %w", endpoint, apperrors.ErrAPIResponse)
}

// ListCollections returns all knowledge collections.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	const endpoint = "/api/knowledge"

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "application/json")
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	list, err := listEnvelope(endpoint, body)
	if err != nil {
		return nil, err
	}

	var collections []Collection
	if err := json.Unmarshal([]byte(list.Raw), &collections); err != nil {
		return nil, fmt.Errorf("decoding collections: %w", err)
	}
	return collections, nil
}

// GetCollection returns the detail for one collection, including the
// ids of attached files. The service answers with either a files[]
// array or a data.file_ids list; both decode into FileIDs.
func (c *Client) GetCollection(ctx context.Context, id string) (*CollectionDetail, error) {
	endpoint := "/api/knowledge/" + id

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "application/json")
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", id, err)
	}

	detail := &CollectionDetail{}
	if err := json.Unmarshal(body, &detail.Collection); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", id, err)
	}

	if files := gjson.GetBytes(body, "files"); files.IsArray() {
		files.ForEach(func(_, file gjson.Result) bool {
			if fid := file.Get("id").Str; fid != "" {
				detail.FileIDs = append(detail.FileIDs, fid)
			}
			return true
		})
	} else if ids := gjson.GetBytes(body, "data.file_ids"); ids.IsArray() {
		ids.ForEach(func(_, fid gjson.Result) bool {
			if fid.Str != "" {
				detail.FileIDs = append(detail.FileIDs, fid.Str)
			}
			return true
		})
	}

	return detail, nil
}

// CreateCollection creates a knowledge collection with the given name
// and description.
func (c *Client) CreateCollection(ctx context.Context, name, description string) (*Collection, error) {
	payload, err := json.Marshal(createCollectionRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/knowledge", payload, "application/json")
	if err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", name, err)
	}

	var collection Collection
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("decoding created collection: %w", err)
	}
	if collection.ID == "" {
		return nil, fmt.Errorf("created collection %q has no id: %w", name, apperrors.ErrAPIResponse)
	}
	return &collection, nil
}

// DeleteCollection removes a knowledge collection by id.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/knowledge/"+id, nil, "application/json"); err != nil {
		return fmt.Errorf("deleting collection %s: %w", id, err)
	}
	return nil
}

// ListFiles returns all files known to the service, keyed by id.
// Entries without an id are dropped. Filenames fall back to meta.name
// when the top-level filename field is absent.
func (c *Client) ListFiles(ctx context.Context) (map[string]RemoteFile, error) {
	const endpoint = "/api/files"

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "application/json")
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	list, err := listEnvelope(endpoint, body)
	if err != nil {
		return nil, err
	}

	files := make(map[string]RemoteFile)
	list.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").Str
		if id == "" {
			return true
		}
		filename := entry.Get("filename").Str
		if filename == "" {
			filename = entry.Get("meta.name").Str
		}
		files[id] = RemoteFile{ID: id, Filename: filename}
		return true
	})
	return files, nil
}

// UploadFile uploads a local file as a multipart form. The generic
// JSON content type is omitted so the multipart writer's boundary
// header goes through untouched.
func (c *Client) UploadFile(ctx context.Context, localPath string) (*RemoteFile, error) {
	f, err := os.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", localPath, apperrors.ErrFileNotExists)
		}
		return nil, fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, fmt.Errorf("creating multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", localPath, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart form: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/files/upload", buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", localPath, err)
	}

	var file RemoteFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("decoding uploaded file: %w", err)
	}
	if file.ID == "" {
		return nil, fmt.Errorf("upload of %s returned no file id: %w", localPath, apperrors.ErrAPIResponse)
	}
	return &file, nil
}

// DeleteFile removes a file from the service by id.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/files/"+id, nil, "application/json"); err != nil {
		return fmt.Errorf("deleting file %s: %w", id, err)
	}
	return nil
}

// AttachExistingFile attaches an already-uploaded file to a collection.
// The remote attach is idempotent; attaching a file that is already a
// member is harmless.
func (c *Client) AttachExistingFile(ctx context.Context, collectionID, fileID string) error {
	payload, err := json.Marshal(attachFileRequest{FileID: fileID})
	if err != nil {
		return fmt.Errorf("marshalling request body: %w", err)
	}

	endpoint := "/api/knowledge/" + collectionID + "/files"
	if _, err := c.do(ctx, http.MethodPost, endpoint, payload, "application/json"); err != nil {
		return fmt.Errorf("attaching file %s to collection %s: %w", fileID, collectionID, err)
	}
	return nil
}

// UploadAndAttachFile uploads a local file and attaches the resulting
// id to the collection.
func (c *Client) UploadAndAttachFile(ctx context.Context, collectionID, localPath string) error {
	file, err := c.UploadFile(ctx, localPath)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	return c.AttachExistingFile(ctx, collectionID, file.ID)
}

// DetachFile removes a file from a collection without deleting the
// file itself. Not used by reconciliation; orphan removal is out of
// scope there.
func (c *Client) DetachFile(ctx context.Context, collectionID, fileID string) error {
	endpoint := "/api/knowledge/" + collectionID + "/files/" + fileID
	if _, err := c.do(ctx, http.MethodDelete, endpoint, nil, "application/json"); err != nil {
		return fmt.Errorf("detaching file %s from collection %s: %w", fileID, collectionID, err)
	}
	return nil
}
