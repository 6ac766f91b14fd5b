package customization

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/types"
)

// Provider supplies the customization schema of a category.
type Provider interface {
	Schema(ctx context.Context, category enums.ProductCategory) (Schema, error)
}

// ProductSource resolves the product a session is opened for.
type ProductSource interface {
	Product(ctx context.Context, id int64) (Product, error)
}

// HTTPProvider reads schemas and products from a remote catalog API that speaks the
// storefront's {"data": ...} envelope.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration, client *http.Client) (*HTTPProvider, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing catalog base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPProvider{baseURL: base, client: client}, nil
}

func (p *HTTPProvider) Schema(ctx context.Context, category enums.ProductCategory) (Schema, error) {
	var schema Schema
	if err := p.get(ctx, "/api/customization-config/"+url.PathEscape(category.String()), &schema); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

func (p *HTTPProvider) Product(ctx context.Context, id int64) (Product, error) {
	var product Product
	if err := p.get(ctx, "/api/products/"+strconv.FormatInt(id, 10), &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}

	var env types.Envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("catalog returned status %d", resp.StatusCode)
		if decodeErr == nil && env.ErrorMessage() != "" {
			msg = env.ErrorMessage()
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return pkgerrors.New(pkgerrors.CodeNotFound, msg)
		case http.StatusBadRequest:
			return pkgerrors.New(pkgerrors.CodeValidation, msg)
		default:
			return pkgerrors.New(pkgerrors.CodeDependency, msg)
		}
	}
	if decodeErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode catalog response")
	}
	if len(env.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog response missing data")
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog payload")
	}
	return nil
}
