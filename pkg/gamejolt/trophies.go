package gamejolt

import "strconv"

// TrophiesFetch retrieves the game's trophies for the current user. A nil
// filter fetches everything; TrophyID narrows the fetch to one trophy and
// takes precedence over AchievedOnly.
func (c *Client) TrophiesFetch(filter *TrophyFilter) (*PendingCall, error) {
	values, err := c.identityValues()
	if err != nil {
		return nil, err
	}
	if filter != nil {
		if filter.TrophyID > 0 {
			values.Set("trophy_id", strconv.Itoa(filter.TrophyID))
		} else if filter.AchievedOnly {
			values.Set("achieved", "true")
		}
	}
	return c.submit("trophies/", values)
}

// TrophiesAddAchieved marks a trophy as achieved for the current user.
func (c *Client) TrophiesAddAchieved(trophyID int) (*PendingCall, error) {
	if trophyID <= 0 {
		return nil, ErrInvalidTrophyID
	}
	values, err := c.identityValues()
	if err != nil {
		return nil, err
	}
	values.Set("trophy_id", strconv.Itoa(trophyID))
	return c.submit("trophies/add-achieved/", values)
}
