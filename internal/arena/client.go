package arena

import (
	"fmt"
	"net/http"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	BASE_URL   = "https://www.buzzerbeater.com"
	USER_AGENT = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Interface for fetching team arena pages.
type ArenaClient interface {
	FetchArenaPage(teamID string) (string, error)
}

type Client struct {
	baseUrl    string
	httpClient *resty.Client
}

// NewClient returns a client for the arena pages served under baseUrl.
// Failed requests are not retried; the caller decides when to try a team again.
func NewClient(baseUrl string, timeout time.Duration) *Client {
	if baseUrl == "" {
		baseUrl = BASE_URL
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", USER_AGENT).
		SetHeader("Accept", "text/html")
	return &Client{
		baseUrl:    baseUrl,
		httpClient: httpClient,
	}
}

// FetchArenaPage retrieves the raw html of the arena page of a team.
func (c *Client) FetchArenaPage(teamID string) (string, error) {
	url := c.baseUrl + "/team/" + teamID + "/arena.aspx"

	logrus.Debug("Sending GET request on url: " + url)

	resp, err := c.httpClient.R().Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch arena page of team %s: %w", teamID, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("sending GET request on url %s returned %d", url, resp.StatusCode())
	}

	return resp.String(), nil
}
