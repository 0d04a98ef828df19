package graph

import (
	"context"
	"fmt"
	"net/url"
)

type Group struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	MailNickname string `json:"mailNickname"`
	Description  string `json:"description"`
	Mail         string `json:"mail"`
}

type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// MemberResult is the per-email outcome of a group membership change.
type MemberResult struct {
	Email string `json:"email"`
	OK    bool   `json:"success"`
	Error string `json:"error,omitempty"`
}

// CreateGroup creates a Microsoft 365 (unified) group, the backing resource
// for a team, its SharePoint site and its Planner plans.
func (c *Client) CreateGroup(ctx context.Context, displayName, mailNickname, description string) (*Group, error) {
	payload := map[string]any{
		"displayName":     displayName,
		"mailNickname":    mailNickname,
		"description":     description,
		"groupTypes":      []string{"Unified"},
		"mailEnabled":     true,
		"securityEnabled": false,
	}

	var group Group
	if err := c.post(ctx, "/groups", payload, &group); err != nil {
		return nil, fmt.Errorf("create group %q: %w", displayName, err)
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	if err := c.delete(ctx, "/groups/"+groupID); err != nil {
		return fmt.Errorf("delete group %s: %w", groupID, err)
	}
	return nil
}

// FindUserByEmail resolves a directory user by mail or UPN. Returns nil
// when no user matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	filter := fmt.Sprintf("mail eq '%s' or userPrincipalName eq '%s'", email, email)

	var result struct {
		Value []User `json:"value"`
	}
	if err := c.get(ctx, "/users?$filter="+url.QueryEscape(filter), &result); err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	if len(result.Value) == 0 {
		return nil, nil
	}
	return &result.Value[0], nil
}

// SearchUsers looks up directory users whose display name or mail starts
// with the query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	filter := fmt.Sprintf("startswith(displayName,'%s') or startswith(mail,'%s')", query, query)

	var result struct {
		Value []User `json:"value"`
	}
	path := "/users?$filter=" + url.QueryEscape(filter) + "&$select=id,displayName,mail,userPrincipalName&$top=10"
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("search users %q: %w", query, err)
	}
	return result.Value, nil
}

// AddGroupMembers adds each email to the group, resolving it to a directory
// user first. Failures are recorded per email and never abort the batch.
func (c *Client) AddGroupMembers(ctx context.Context, groupID string, emails []string) ([]MemberResult, error) {
	return c.addGroupRefs(ctx, groupID, "members", emails)
}

// AddGroupOwners is AddGroupMembers for the group's owners collection.
func (c *Client) AddGroupOwners(ctx context.Context, groupID string, emails []string) ([]MemberResult, error) {
	return c.addGroupRefs(ctx, groupID, "owners", emails)
}

func (c *Client) addGroupRefs(ctx context.Context, groupID, collection string, emails []string) ([]MemberResult, error) {
	results := make([]MemberResult, 0, len(emails))

	for _, email := range emails {
		user, err := c.FindUserByEmail(ctx, email)
		if err != nil {
			results = append(results, MemberResult{Email: email, Error: err.Error()})
			continue
		}
		if user == nil {
			results = append(results, MemberResult{Email: email, Error: "user not found"})
			continue
		}

		ref := map[string]string{
			"@odata.id": "https://graph.microsoft.com/v1.0/directoryObjects/" + user.ID,
		}
		if err := c.post(ctx, "/groups/"+groupID+"/"+collection+"/$ref", ref, nil); err != nil {
			results = append(results, MemberResult{Email: email, Error: err.Error()})
			continue
		}
		results = append(results, MemberResult{Email: email, OK: true})
	}

	return results, nil
}
