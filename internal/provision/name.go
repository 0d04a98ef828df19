package provision

import "strings"

const mailNicknameMaxLen = 20

// DisplayName builds the group display name, "PV - {client} - {project}",
// or "PV - {project}" when there is no client.
func DisplayName(clientName, projectName string) string {
	if clientName == "" {
		return "PV - " + projectName
	}
	return "PV - " + clientName + " - " + projectName
}

// MailNickname derives the group mail nickname from client and project
// names: lower-cased, stripped to ASCII letters and digits, truncated to
// 20 characters. Deterministic for a given input.
func MailNickname(clientName, projectName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(clientName + projectName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == mailNicknameMaxLen {
			break
		}
	}
	return b.String()
}
