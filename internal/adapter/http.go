package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

// APIPrefix is the path under which every procedure is served.
const APIPrefix = "/api/"

type httpInvoker struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	logger *logger.Logger
}

// NewHTTPInvoker constructs the HTTP implementation of [Invoker].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL, request
// timeout and retry policy, and enables request signing when appCfg.HashKey
// is set.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPInvoker(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (Invoker, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetRetryCount(adapterCfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(shouldRetry)

	inv := &httpInvoker{client: client, logger: logger}
	if appCfg.HashKey != "" {
		inv.hasher = utils.NewHasher(appCfg.HashKey)
	}

	return inv, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
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

// Invoke implements [Invoker]. It POSTs params as an
// application/x-www-form-urlencoded body to /api/<procedure>.
func (h *httpInvoker) Invoke(ctx context.Context, procedure string, params models.Params) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	values, err := encodeParams(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", procedure, err)
	}
	if h.hasher != nil {
		values.Set(utils.SignatureParam, h.hasher.SignValues(values))
	}

	resp, err := h.client.R().
		SetContext(withRetry(ctx, retryable(procedure, params))).
		SetFormDataFromValues(values).
		Post(APIPrefix + procedure)
	if err != nil {
		log.Err(err).Str("func", "httpInvoker.Invoke").Str("procedure", procedure).Msg("request failed")
		return nil, fmt.Errorf("%s request: %w", procedure, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Str("func", "httpInvoker.Invoke").Str("procedure", procedure).
			Int("status", resp.StatusCode()).Err(err).Msg("procedure rejected")
		return nil, err
	}

	body := resp.Body()
	if err = mapEnvelopeError(body); err != nil {
		log.Warn().Str("func", "httpInvoker.Invoke").Str("procedure", procedure).Err(err).Msg("procedure failed")
		return nil, err
	}

	log.Debug().Str("func", "httpInvoker.Invoke").Str("procedure", procedure).
		Dur("took", resp.Time()).Msg("procedure succeeded")

	return json.RawMessage(body), nil
}

// encodeParams converts an ordered argument list to form values. Slices are
// expanded into repeated arguments.
func encodeParams(params models.Params) (url.Values, error) {
	values := make(url.Values, len(params))
	for _, p := range params {
		switch v := p.Value.(type) {
		case []string:
			for _, s := range v {
				values.Add(p.Name, s)
			}
		case []int64:
			for _, n := range v {
				values.Add(p.Name, strconv.FormatInt(n, 10))
			}
		default:
			s, err := formatValue(v)
			if err != nil {
				return nil, fmt.Errorf("param %q: %w", p.Name, err)
			}
			values.Add(p.Name, s)
		}
	}
	return values, nil
}

func formatValue(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case int:
		return strconv.Itoa(value), nil
	case int32:
		return strconv.FormatInt(int64(value), 10), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case bool:
		if value {
			return "1", nil
		}
		return "0", nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case json.RawMessage:
		return string(value), nil
	case fmt.Stringer:
		return value.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
