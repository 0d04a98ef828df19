package graph

import (
	"context"
	"fmt"
)

type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

type Channel struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

// CreateTeamFromGroup enables Teams on an existing Microsoft 365 group.
// Graph needs a few seconds after group creation before this succeeds.
func (c *Client) CreateTeamFromGroup(ctx context.Context, groupID string) (*Team, error) {
	payload := map[string]any{
		"memberSettings": map[string]any{
			"allowCreateUpdateChannels":         true,
			"allowDeleteChannels":               false,
			"allowAddRemoveApps":                false,
			"allowCreateUpdateRemoveTabs":       true,
			"allowCreateUpdateRemoveConnectors": false,
		},
		"messagingSettings": map[string]any{
			"allowUserEditMessages":    true,
			"allowUserDeleteMessages":  true,
			"allowOwnerDeleteMessages": true,
			"allowTeamMentions":        true,
			"allowChannelMentions":     true,
		},
		"funSettings": map[string]any{
			"allowGiphy":            true,
			"giphyContentRating":    "moderate",
			"allowStickersAndMemes": true,
			"allowCustomMemes":      true,
		},
	}

	var team Team
	if err := c.put(ctx, "/groups/"+groupID+"/team", payload, &team); err != nil {
		return nil, fmt.Errorf("create team from group %s: %w", groupID, err)
	}
	if team.ID == "" {
		team.ID = groupID
	}
	return &team, nil
}

func (c *Client) ListChannels(ctx context.Context, teamID string) ([]Channel, error) {
	var result struct {
		Value []Channel `json:"value"`
	}
	if err := c.get(ctx, "/teams/"+teamID+"/channels", &result); err != nil {
		return nil, fmt.Errorf("list channels of team %s: %w", teamID, err)
	}
	return result.Value, nil
}

func (c *Client) CreateChannel(ctx context.Context, teamID, displayName, description string) (*Channel, error) {
	payload := map[string]string{
		"displayName": displayName,
		"description": description,
	}

	var channel Channel
	if err := c.post(ctx, "/teams/"+teamID+"/channels", payload, &channel); err != nil {
		return nil, fmt.Errorf("create channel %q in team %s: %w", displayName, teamID, err)
	}
	return &channel, nil
}

// SendChannelMessage posts an HTML message to a team channel.
func (c *Client) SendChannelMessage(ctx context.Context, teamID, channelID, html string) error {
	payload := map[string]any{
		"body": map[string]string{
			"content":     html,
			"contentType": "html",
		},
	}
	if err := c.post(ctx, "/teams/"+teamID+"/channels/"+channelID+"/messages", payload, nil); err != nil {
		return fmt.Errorf("send message to channel %s: %w", channelID, err)
	}
	return nil
}
