package gamejolt

import (
	"net/url"
	"strings"
)

// DataStoreFetch retrieves the data stored under key. With an authenticated
// identity the user's store is read unless public forces the game-wide
// store.
func (c *Client) DataStoreFetch(key string, public bool) (*PendingCall, error) {
	if !validStoreKey(key) {
		return nil, ErrMissingKey
	}
	values := c.storeValues(public)
	values.Set("key", key)
	return c.submit("data-store/", values)
}

// DataStoreSet stores data under key.
func (c *Client) DataStoreSet(key, data string, public bool) (*PendingCall, error) {
	if !validStoreKey(key) {
		return nil, ErrMissingKey
	}
	values := c.storeValues(public)
	values.Set("key", key)
	values.Set("data", data)
	return c.submit("data-store/set/", values)
}

// DataStoreUpdate applies op with value to previously stored data. The
// operation is validated before anything is queued.
func (c *Client) DataStoreUpdate(key string, op StoreOperation, value string, public bool) (*PendingCall, error) {
	if !validStoreKey(key) {
		return nil, ErrMissingKey
	}
	if !validStoreOperation(op) {
		return nil, ErrInvalidOperation
	}
	values := c.storeValues(public)
	values.Set("key", key)
	values.Set("operation", string(op))
	values.Set("value", value)
	return c.submit("data-store/update/", values)
}

// DataStoreRemove deletes key and its data.
func (c *Client) DataStoreRemove(key string, public bool) (*PendingCall, error) {
	if !validStoreKey(key) {
		return nil, ErrMissingKey
	}
	values := c.storeValues(public)
	values.Set("key", key)
	return c.submit("data-store/remove/", values)
}

// DataStoreGetKeys lists the keys in the targeted store.
func (c *Client) DataStoreGetKeys(public bool) (*PendingCall, error) {
	return c.submit("data-store/get-keys/", c.storeValues(public))
}

// storeValues targets either the user store or the public store. Identity
// parameters are attached only when an identity exists and public was not
// requested; public always wins over identity.
func (c *Client) storeValues(public bool) url.Values {
	values := c.baseValues()
	if username, token, ok := c.user(); ok && !public {
		values.Set("username", username)
		values.Set("user_token", token)
	}
	return values
}

func validStoreKey(key string) bool {
	return strings.TrimSpace(key) != ""
}
