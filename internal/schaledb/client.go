package schaledb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/schale-tools/schale-mcp/internal/observe"
)

// DefaultBaseURL is the public SchaleDB data root.
const DefaultBaseURL = "https://schaledb.com/data"

// Default TTLs for the two caches. Entity collections change with game
// patches and are kept for minutes; localization and lookup tables change
// far less often and are kept for hours.
const (
	DefaultDataTTL         = 5 * time.Minute
	DefaultLocalizationTTL = 2 * time.Hour
)

// Languages lists the upstream language codes, in the order they are tried
// for cross-language lookups.
var Languages = []string{"cn", "jp", "en", "kr", "th"}

// ValidLanguage reports whether code is a known upstream language code.
func ValidLanguage(code string) bool {
	for _, l := range Languages {
		if l == code {
			return true
		}
	}
	return false
}

// Client fetches and queries the SchaleDB corpus. It is safe for concurrent
// use: the caches are internally locked and in-flight fetches for the same
// endpoint are collapsed into a single upstream request.
type Client struct {
	baseURL     string
	defaultLang string
	httpc       *http.Client
	metrics     *observe.Metrics

	// data holds normalized per-language entity collections (short TTL).
	data *Cache[[]Record]

	// locale holds raw keyed lookup tables: localization and the game
	// config (long TTL).
	locale *Cache[Record]

	group singleflight.Group
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the upstream data root. Default: [DefaultBaseURL].
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithDefaultLanguage sets the language used when a query does not name one.
// Default: "cn".
func WithDefaultLanguage(code string) Option {
	return func(c *Client) { c.defaultLang = code }
}

// WithHTTPClient replaces the HTTP client. The client's own timeout is the
// only fetch timeout — the core imposes none of its own.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithDataTTL sets the entity-collection cache TTL. Default: [DefaultDataTTL].
func WithDataTTL(ttl time.Duration) Option {
	return func(c *Client) { c.data = NewCache[[]Record](ttl) }
}

// WithLocalizationTTL sets the lookup-table cache TTL.
// Default: [DefaultLocalizationTTL].
func WithLocalizationTTL(ttl time.Duration) Option {
	return func(c *Client) { c.locale = NewCache[Record](ttl) }
}

// WithMetrics attaches metric instruments. A nil *Metrics disables
// recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a Client with the default base URL, language, TTLs, and a
// 30-second HTTP timeout.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		defaultLang: "cn",
		httpc:       &http.Client{Timeout: 30 * time.Second},
		data:        NewCache[[]Record](DefaultDataTTL),
		locale:      NewCache[Record](DefaultLocalizationTTL),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// lang returns code, or the client's default language when code is empty.
func (c *Client) lang(code string) string {
	if code == "" {
		return c.defaultLang
	}
	return code
}

// ClearCaches empties both caches. Intended for operational use after an
// upstream data push.
func (c *Client) ClearCaches() {
	c.data.Clear()
	c.locale.Clear()
}

// FetchCollection returns the normalized record list for one per-language
// endpoint (e.g. language "en", endpoint "students"). Cache-aside: a valid
// cached collection is returned as-is; otherwise one GET is issued (shared
// between concurrent callers of the same key), the body normalized, cached,
// and returned. Any failure surfaces as a [*FetchError]; there is no retry
// and no stale fallback.
func (c *Client) FetchCollection(ctx context.Context, language, endpoint string) ([]Record, error) {
	key := c.lang(language) + "/" + endpoint

	if cached, hit := c.data.Get(key); hit {
		c.metrics.RecordCacheLookup(ctx, "data", true)
		observe.Logger(ctx).Debug("cache hit", "endpoint", key)
		return cached, nil
	}
	c.metrics.RecordCacheLookup(ctx, "data", false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have populated the cache between our miss
		// and acquiring the flight.
		if cached, hit := c.data.Get(key); hit {
			return cached, nil
		}
		body, err := c.httpGet(ctx, key)
		if err != nil {
			return nil, err
		}
		records, err := decodeCollection(body)
		if err != nil {
			return nil, &FetchError{Endpoint: key, Err: fmt.Errorf("decode: %w", err)}
		}
		c.data.Set(key, records)
		observe.Logger(ctx).Info("fetched collection", "endpoint", key, "records", len(records))
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Record), nil
}

// Localization returns the raw localization table for language from the
// long-TTL cache.
func (c *Client) Localization(ctx context.Context, language string) (Record, error) {
	return c.fetchTable(ctx, c.lang(language)+"/localization")
}

// GameConfig returns the language-independent game configuration
// (config.json): build identifier, region, and related metadata.
func (c *Client) GameConfig(ctx context.Context) (Record, error) {
	return c.fetchTable(ctx, "config")
}

// fetchTable is the cache-aside path for keyed lookup tables, which keep
// their object form (keys are meaningful, unlike entity collections).
func (c *Client) fetchTable(ctx context.Context, key string) (Record, error) {
	if cached, hit := c.locale.Get(key); hit {
		c.metrics.RecordCacheLookup(ctx, "localization", true)
		return cached, nil
	}
	c.metrics.RecordCacheLookup(ctx, "localization", false)

	v, err, _ := c.group.Do("table:"+key, func() (any, error) {
		if cached, hit := c.locale.Get(key); hit {
			return cached, nil
		}
		body, err := c.httpGet(ctx, key)
		if err != nil {
			return nil, err
		}
		var table Record
		if err := json.Unmarshal(body, &table); err != nil {
			return nil, &FetchError{Endpoint: key, Err: fmt.Errorf("decode: %w", err)}
		}
		c.locale.Set(key, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Record), nil
}

// httpGet performs one upstream GET for key (path below the base URL,
// without the .json suffix) and returns the response body.
func (c *Client) httpGet(ctx context.Context, key string) ([]byte, error) {
	url := c.baseURL + "/" + key + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: key, Err: err}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.RecordFetch(ctx, key, time.Since(start).Seconds(), err)
		return nil, &FetchError{Endpoint: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ferr := &FetchError{Endpoint: key, StatusCode: resp.StatusCode}
		c.metrics.RecordFetch(ctx, key, time.Since(start).Seconds(), ferr)
		return nil, ferr
	}

	body, err := io.ReadAll(resp.Body)
	c.metrics.RecordFetch(ctx, key, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, &FetchError{Endpoint: key, Err: err}
	}
	return body, nil
}

// decodeCollection normalizes an upstream payload to list semantics, which
// all downstream scoring and filtering depends on:
//
//   - a JSON array yields its object elements in order;
//   - a JSON object yields its values in document order, keys discarded
//     (Go maps would lose the order, so the object is walked with a token
//     stream); a value that is itself an array contributes its object
//     elements;
//   - an object carrying a "Raid" array (the raids.json envelope) yields
//     exactly that array.
func decodeCollection(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return nil, fmt.Errorf("payload is not an array or object")
	}

	var out []Record
	switch delim {
	case '[':
		for dec.More() {
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			out = appendRecords(out, v)
		}
	case '{':
		var raid []Record
		haveRaid := false
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)

			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			if key == "Raid" {
				if arr, isArr := v.([]any); isArr {
					raid = appendRecords(nil, arr)
					haveRaid = true
				}
			}
			out = appendRecords(out, v)
		}
		if haveRaid {
			return raid, nil
		}
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
	return out, nil
}

// appendRecords appends v to out when it is an object, or its object
// elements when it is an array. Scalars are dropped — a collection entry
// that is not a record cannot be queried.
func appendRecords(out []Record, v any) []Record {
	switch t := v.(type) {
	case map[string]any:
		out = append(out, Record(t))
	case []any:
		for _, e := range t {
			if m, isMap := e.(map[string]any); isMap {
				out = append(out, Record(m))
			}
		}
	}
	return out
}
