package gamejolt

import "strconv"

const defaultScoresLimit = 10

// ScoresFetch retrieves scores from a score table. Scores are fetched
// without identity parameters; use opts to pick a table and limit.
func (c *Client) ScoresFetch(opts *ScoresFetchOptions) (*PendingCall, error) {
	values := c.baseValues()
	limit := defaultScoresLimit
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		if opts.TableID > 0 {
			values.Set("table_id", strconv.Itoa(opts.TableID))
		}
	}
	values.Set("limit", strconv.Itoa(limit))
	return c.submit("scores/", values)
}

// ScoresAdd submits a score. With an authenticated identity the score is
// recorded for that user; otherwise it is recorded under guest=Guest.
func (c *Client) ScoresAdd(sort int, opts *ScoreAddOptions) (*PendingCall, error) {
	values := c.baseValues()
	if username, token, ok := c.user(); ok {
		values.Set("username", username)
		values.Set("user_token", token)
	} else {
		values.Set("guest", "Guest")
	}

	values.Set("sort", strconv.Itoa(sort))
	score := strconv.Itoa(sort)
	if opts != nil {
		if opts.Score != "" {
			score = opts.Score
		}
		if opts.TableID > 0 {
			values.Set("table_id", strconv.Itoa(opts.TableID))
		}
	}
	values.Set("score", score)
	return c.submit("scores/add/", values)
}

// ScoresTables retrieves the game's score tables.
func (c *Client) ScoresTables() (*PendingCall, error) {
	return c.submit("scores/tables/", c.baseValues())
}
