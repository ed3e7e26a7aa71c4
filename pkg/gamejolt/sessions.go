package gamejolt

import "net/url"

// SessionOpen opens a game session for the current user. Only one session
// per user can be open at a time; opening a new one closes the previous.
func (c *Client) SessionOpen() (*PendingCall, error) {
	values, err := c.identityValues()
	if err != nil {
		return nil, err
	}
	return c.submit("sessions/open/", values)
}

// SessionPing keeps the open session alive and updates its status.
func (c *Client) SessionPing(status SessionStatus) (*PendingCall, error) {
	switch status {
	case StatusActive, StatusIdle:
	case "":
		status = StatusActive
	default:
		return nil, ErrInvalidStatus
	}

	values, err := c.identityValues()
	if err != nil {
		return nil, err
	}
	values.Set("status", string(status))
	return c.submit("sessions/ping/", values)
}

// SessionClose closes the open session.
func (c *Client) SessionClose() (*PendingCall, error) {
	values, err := c.identityValues()
	if err != nil {
		return nil, err
	}
	return c.submit("sessions/close/", values)
}

// identityValues builds the base parameter set plus the authenticated
// identity, failing when no user is configured.
func (c *Client) identityValues() (url.Values, error) {
	username, token, ok := c.user()
	if !ok {
		return nil, ErrNoCredentials
	}
	v := c.baseValues()
	v.Set("username", username)
	v.Set("user_token", token)
	return v, nil
}
