package graph

import (
	"context"
	"fmt"
)

type Site struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

type DriveItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
}

// GetGroupSite returns the root SharePoint site of a Microsoft 365 group.
func (c *Client) GetGroupSite(ctx context.Context, groupID string) (*Site, error) {
	var site Site
	if err := c.get(ctx, "/groups/"+groupID+"/sites/root", &site); err != nil {
		return nil, fmt.Errorf("get site of group %s: %w", groupID, err)
	}
	return &site, nil
}

// CreateFolder creates a folder under parentID in the site's default drive.
// Pass "root" as parentID for the drive root. Name collisions are renamed,
// not failed.
func (c *Client) CreateFolder(ctx context.Context, siteID, parentID, name string) (*DriveItem, error) {
	payload := map[string]any{
		"name":                              name,
		"folder":                            map[string]any{},
		"@microsoft.graph.conflictBehavior": "rename",
	}

	var item DriveItem
	if err := c.post(ctx, "/sites/"+siteID+"/drive/items/"+parentID+"/children", payload, &item); err != nil {
		return nil, fmt.Errorf("create folder %q in site %s: %w", name, siteID, err)
	}
	return &item, nil
}

func (c *Client) ListFiles(ctx context.Context, siteID, folderID string) ([]DriveItem, error) {
	if folderID == "" {
		folderID = "root"
	}

	var result struct {
		Value []DriveItem `json:"value"`
	}
	if err := c.get(ctx, "/sites/"+siteID+"/drive/items/"+folderID+"/children", &result); err != nil {
		return nil, fmt.Errorf("list files in site %s: %w", siteID, err)
	}
	return result.Value, nil
}
