package sdk

import "fmt"

func (c *Client) ListProfiles() ([]Profile, error) {
	var profiles []Profile
	err := c.get("/profiles", &profiles)
	return profiles, err
}

func (c *Client) GetProfile(id string) (*Profile, error) {
	var p Profile
	err := c.get("/profiles/"+id, &p)
	return &p, err
}

func (c *Client) CreateProfile(req CreateProfileRequest) (*Profile, error) {
	var p Profile
	err := c.post("/profiles", req, &p)
	return &p, err
}

func (c *Client) DeleteProfile(id string) error {
	return c.delete("/profiles/" + id)
}

func (c *Client) StartServer(id string) error {
	return c.post(fmt.Sprintf("/profiles/%s/start", id), nil, nil)
}

func (c *Client) StopServer(id string) error {
	return c.post(fmt.Sprintf("/profiles/%s/stop", id), nil, nil)
}

func (c *Client) SendCommand(id, command string) error {
	payload := map[string]string{"command": command}
	return c.post(fmt.Sprintf("/profiles/%s/command", id), payload, nil)
}

func (c *Client) ServerStatus(id string) (*InstanceState, error) {
	var state InstanceState
	err := c.get(fmt.Sprintf("/profiles/%s/status", id), &state)
	return &state, err
}

func (c *Client) ServerStats(id string) (*ServerStats, error) {
	var stats ServerStats
	err := c.get(fmt.Sprintf("/profiles/%s/stats", id), &stats)
	return &stats, err
}

func (c *Client) Download(id string) error {
	return c.post(fmt.Sprintf("/profiles/%s/download", id), nil, nil)
}

func (c *Client) GetPortRange() (*PortRange, error) {
	var pr PortRange
	err := c.get("/settings/port-range", &pr)
	return &pr, err
}

func (c *Client) SetPortRange(start, end int) error {
	payload := map[string]int{
		"start": start,
		"end":   end,
	}
	return c.put("/settings/port-range", payload)
}
