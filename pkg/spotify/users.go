package spotify

import (
	"context"
	"encoding/json"
	"fmt"
)

// UsersService provides access to user profile operations.
type UsersService struct {
	client *Client
}

// Me fetches the profile of the user the access token belongs to.
func (s *UsersService) Me(ctx context.Context) (*User, error) {
	body, err := s.client.get(ctx, "/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse profile response: %w", err)
	}

	return &user, nil
}
