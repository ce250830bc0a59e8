package roomdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"confbook/internal/domain/room"
	"confbook/internal/infra"
	"confbook/internal/pkg/config"
)

// Client talks to the room directory service, the system of record for
// rooms and their locations.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(cfg config.RoomDirConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

type roomPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	BasePrice float64 `json:"basePrice"`
	Location  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"location"`
}

func (c *Client) FindRoom(ctx context.Context, roomID string) (*room.Room, error) {
	url := fmt.Sprintf("%s/api/rooms/%s", c.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build room directory request", err, infra.KindUpstream)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr("room directory request failed", err, infra.KindUpstream)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, infra.WrapRepoErr("room not found in directory",
			fmt.Errorf("room %q not found", roomID), infra.KindNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, infra.WrapRepoErr("room directory returned unexpected status",
			fmt.Errorf("status %d", resp.StatusCode), infra.KindUpstream)
	}

	var payload roomPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, infra.WrapRepoErr("failed to decode room directory response", err, infra.KindUpstream)
	}

	rm, err := room.NewRoom(payload.ID, payload.Name, payload.Capacity, payload.BasePrice,
		payload.Location.ID, payload.Location.Name)
	if err != nil {
		return nil, infra.WrapRepoErr("room directory returned invalid room data", err, infra.KindUpstream)
	}
	return rm, nil
}
