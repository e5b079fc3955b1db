package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the remote read-only catalog API. All methods return
// explicit errors; the failure-swallowing policy required at the collaborator
// boundary lives in Service, not here.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Useful in tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a catalog Client for the given base URL, e.g.
// "https://fakestoreapi.com". The default transport is instrumented with
// OpenTelemetry.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products fetches the full product listing.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

// ProductByID fetches a single product. Returns ErrNotFound when the catalog
// has no entry for id.
func (c *Client) ProductByID(ctx context.Context, id int) (*Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	// The upstream API answers 200 with an empty body for unknown IDs, so an
	// empty or null payload counts as not found too.
	if len(body) == 0 || string(body) == "null" {
		return nil, ErrNotFound
	}

	d := jx.DecodeBytes(body)
	p, err := decodeProduct(d)
	if err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &p, nil
}

// Categories fetches the list of category labels.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var out []string
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return out, nil
}

// ProductsByCategory fetches the products belonging to one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	body, err := c.get(ctx, "/products/category/"+url.PathEscape(category))
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

// get performs a GET request against the catalog and returns the raw body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}

func decodeProducts(body []byte) ([]Product, error) {
	var out []Product
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int()
			if err != nil {
				return err
			}
			p.ID = v
		case "title":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Title = v
		case "price":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			p.Price = v
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Category = v
		case "description":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Description = v
		case "image":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Image = v
		case "rating":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "rate":
					v, err := decodeDecimal(d)
					if err != nil {
						return err
					}
					p.Rating.Rate = v
				case "count":
					v, err := d.Int()
					if err != nil {
						return err
					}
					p.Rating.Count = v
				default:
					return d.Skip()
				}
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	return p, err
}

// decodeDecimal reads a JSON number without a float round-trip, so prices
// like 109.95 survive exactly.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(strings.Trim(n.String(), `"`))
}
