package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"provmgr/config/models"
	"provmgr/internal/logging"
	"provmgr/internal/utils"
)

// discoveryEndpoints are tried in order; some gateways only expose the
// unversioned path.
var discoveryEndpoints = []string{"/v1/models", "/models"}

// DiscoverModels enumerates the models an endpoint offers. Each endpoint is
// tried once; a non-200 status, an unparsable body, or an empty model list
// all count as failure for that endpoint and trigger the fallback. When every
// endpoint fails, the error names all attempted paths.
func (c *Client) DiscoverModels(ctx context.Context, baseURL, apiKey string) (map[string]models.ModelInfo, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	for _, endpoint := range discoveryEndpoints {
		found, err := c.fetchModels(ctx, baseURL, apiKey, endpoint)
		if err != nil {
			logging.Debug("Probe", "model discovery via %s failed: %v", endpoint, err)
			continue
		}
		return found, nil
	}
	return nil, fmt.Errorf("unable to discover models, attempted: %s", strings.Join(discoveryEndpoints, ", "))
}

func (c *Client) fetchModels(ctx context.Context, baseURL, apiKey, endpoint string) (map[string]models.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, utils.JoinEndpoint(baseURL, endpoint), nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	found := parseModelList(body)
	if len(found) == 0 {
		return nil, fmt.Errorf("no models in response")
	}
	return found, nil
}

// parseModelList accepts both {"data": [...]} and a bare array, with each
// entry carrying an "id" or, failing that, a "name". Entries with neither
// are skipped.
func parseModelList(body []byte) map[string]models.ModelInfo {
	if !gjson.ValidBytes(body) {
		return nil
	}

	root := gjson.ParseBytes(body)
	list := root.Get("data")
	if !list.IsArray() {
		if !root.IsArray() {
			return nil
		}
		list = root
	}

	found := make(map[string]models.ModelInfo)
	list.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").String()
		if id == "" {
			id = entry.Get("name").String()
		}
		if id == "" {
			return true
		}
		found[id] = models.ModelInfo{Name: id}
		return true
	})
	return found
}
