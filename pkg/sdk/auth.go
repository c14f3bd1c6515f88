package sdk

import "fmt"

func (c *Client) AuthSession() (*AuthSession, error) {
	var session AuthSession
	err := c.get("/auth/session", &session)
	return &session, err
}

func (c *Client) ResetAuth() error {
	return c.post("/auth/reset", nil, nil)
}

func (c *Client) TriggerLogin(profileID string) error {
	return c.post(fmt.Sprintf("/auth/login/%s", profileID), nil, nil)
}
