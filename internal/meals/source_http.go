package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	SourceRemote   = "remote"
	SourceDatabase = "database"

	responseBodyReadLimit int64 = 1024
	fetchFailedMessage          = "Something went wrong!"
)

var errRemoteURLRequired = errors.New("meals remote url is required")

// Source loads the full catalog.
type Source interface {
	Load(ctx context.Context) ([]Meal, error)
	Name() string
}

// HTTPSource reads a Firebase-style document keyed by meal id:
//
//	{"m1": {"name": "Sushi", "description": "...", "price": 22.99}}
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

// Option configures optional HTTPSource behavior.
type Option func(*HTTPSource)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSource) {
		if timeout > 0 {
			s.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func NewHTTPSource(url string, opts ...Option) (*HTTPSource, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, errRemoteURLRequired
	}
	src := &HTTPSource{
		url:        trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(src)
		}
	}
	return src, nil
}

func (s *HTTPSource) Name() string { return SourceRemote }

type remoteMeal struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Load performs a single GET. There is no retry; failures surface as dependency errors.
func (s *HTTPSource) Load(ctx context.Context) ([]Meal, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build meals request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fetchFailedMessage)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), fetchFailedMessage)
	}

	var payload map[string]remoteMeal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode meals response")
	}

	return normalize(payload)
}

func normalize(payload map[string]remoteMeal) ([]Meal, error) {
	ids := make([]string, 0, len(payload))
	for id := range payload {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs error
	out := make([]Meal, 0, len(ids))
	for _, id := range ids {
		row := payload[id]
		meal := Meal{ID: id, Name: strings.TrimSpace(row.Name), Description: row.Description, Price: row.Price}
		if err := validateMeal(meal); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, meal)
	}
	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "meals payload invalid").
			WithDetails(map[string]any{"errors": len(multierr.Errors(errs))})
	}
	return out, nil
}

func validateMeal(m Meal) error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("meal id is required")
	}
	var errs error
	if m.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("meal %q: name is required", m.ID))
	}
	if m.Price.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("meal %q: price must not be negative", m.ID))
	}
	return errs
}
