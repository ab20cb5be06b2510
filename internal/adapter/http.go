package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-protected-text/internal/config"
	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/internal/utils"
	"github.com/MKhiriev/go-protected-text/models"
)

// RequestIDHeader carries the id that ties a request to its log entries.
const RequestIDHeader = "X-Request-ID"

const userAgent = "go-protected-text"

type httpServerAdapter struct {
	client *utils.HTTPClient
	ids    *utils.UUIDGenerator

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient(userAgent)
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{
		client: client,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// sitePath escapes every segment of name. Site names may contain slashes.
func sitePath(name string) (string, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return "", ErrEmptySiteName
	}

	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/"), nil
}

// Fetch implements [ServerAdapter]. It issues GET <name>?action=getJSON and
// decodes the JSON body.
func (h *httpServerAdapter) Fetch(ctx context.Context, name string) (models.SiteResponse, error) {
	path, err := sitePath(name)
	if err != nil {
		return models.SiteResponse{}, err
	}

	req, requestID := h.request(ctx)
	resp, err := req.
		SetQueryParam("action", models.ActionGetJSON).
		Get(path)
	if err != nil {
		return models.SiteResponse{}, fmt.Errorf("fetch request: %w", err)
	}

	h.logResponse("httpServerAdapter.Fetch", name, requestID, resp)
	if err = mapHTTPError(resp); err != nil {
		return models.SiteResponse{}, err
	}

	var site models.SiteResponse
	if err = json.Unmarshal(resp.Body(), &site); err != nil {
		return models.SiteResponse{}, fmt.Errorf("decode fetch response: %w", err)
	}

	return site, nil
}

// Save implements [ServerAdapter]. It posts the save form to <name>.
func (h *httpServerAdapter) Save(ctx context.Context, saveReq models.SaveRequest) (models.StatusResponse, error) {
	return h.post(ctx, "httpServerAdapter.Save", saveReq.Name, map[string]string{
		"action":             models.ActionSave,
		"currentHashContent": saveReq.CurrentHashContent,
		"encryptedContent":   saveReq.EncryptedContent,
		"initHashContent":    saveReq.InitHashContent,
	})
}

// Delete implements [ServerAdapter]. It posts the delete form to <name>.
func (h *httpServerAdapter) Delete(ctx context.Context, deleteReq models.DeleteRequest) (models.StatusResponse, error) {
	return h.post(ctx, "httpServerAdapter.Delete", deleteReq.Name, map[string]string{
		"action":          models.ActionDelete,
		"initHashContent": deleteReq.InitHashContent,
	})
}

func (h *httpServerAdapter) post(ctx context.Context, fn, name string, form map[string]string) (models.StatusResponse, error) {
	path, err := sitePath(name)
	if err != nil {
		return models.StatusResponse{}, err
	}

	req, requestID := h.request(ctx)
	resp, err := req.
		SetFormData(form).
		Post(path)
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("%s request: %w", form["action"], err)
	}

	h.logResponse(fn, name, requestID, resp)
	if err = mapHTTPError(resp); err != nil {
		return models.StatusResponse{}, err
	}

	var status models.StatusResponse
	if err = json.Unmarshal(resp.Body(), &status); err != nil {
		return models.StatusResponse{}, fmt.Errorf("decode %s response: %w", form["action"], err)
	}

	return status, mapStatus(status)
}

// request prepares a request carrying the request id from ctx, or a fresh
// one.
func (h *httpServerAdapter) request(ctx context.Context) (*resty.Request, string) {
	requestID, ok := utils.GetRequestIDFromContext(ctx)
	if !ok {
		requestID = h.ids.Generate()
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID), requestID
}

func (h *httpServerAdapter) logResponse(fn, name, requestID string, resp *resty.Response) {
	h.logger.Debug().
		Str("func", fn).
		Str("site", name).
		Str("request_id", requestID).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("remote store responded")
}
