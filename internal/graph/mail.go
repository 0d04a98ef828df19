package graph

import (
	"context"
	"fmt"
)

// SendMail sends an HTML email from the given user mailbox.
func (c *Client) SendMail(ctx context.Context, from, to, subject, htmlBody string) error {
	payload := map[string]any{
		"message": map[string]any{
			"subject": subject,
			"body": map[string]string{
				"contentType": "HTML",
				"content":     htmlBody,
			},
			"toRecipients": []map[string]any{
				{"emailAddress": map[string]string{"address": to}},
			},
		},
		"saveToSentItems": true,
	}

	if err := c.post(ctx, "/users/"+from+"/sendMail", payload, nil); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
