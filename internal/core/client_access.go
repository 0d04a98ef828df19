package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/platform"
)

// ClientAccessService manages client portal users and their project grants.
type ClientAccessService struct {
	db            DB
	gc            Graph
	mailSender    string
	portalBaseURL string
	logger        zerolog.Logger
}

func NewClientAccessService(db DB, gc Graph, mailSender, portalBaseURL string, logger zerolog.Logger) *ClientAccessService {
	return &ClientAccessService{db: db, gc: gc, mailSender: mailSender, portalBaseURL: portalBaseURL, logger: logger}
}

// GrantResult is returned to the admin after granting access. Password is
// the plain generated password, shown exactly once.
type GrantResult struct {
	URL       string `json:"url"`
	Password  string `json:"password"`
	EmailSent bool   `json:"emailSent"`
}

// Grant creates or updates the portal user, grants it access to the
// project, and optionally emails the credentials. Email failures are
// logged, not returned.
func (s *ClientAccessService) Grant(ctx context.Context, project *model.Project, email, name string, permissions []string, sendEmail bool) (*GrantResult, error) {
	if name == "" {
		name = email
	}
	if len(permissions) == 0 {
		permissions = []string{"view", "tasks"}
	}

	password, err := generatePassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var userID string
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, 'client')
		 ON CONFLICT (email) DO UPDATE SET name = $3, password_hash = $4
		 RETURNING id`,
		platform.NewShortID(), email, name, string(hash)).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("upsert portal user %s: %w", email, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO project_access (project_id, user_id, permissions) VALUES ($1, $2, $3)
		 ON CONFLICT (project_id, user_id) DO UPDATE SET permissions = $3`,
		project.ID, userID, permissions)
	if err != nil {
		return nil, fmt.Errorf("grant project access: %w", err)
	}

	portalURL := fmt.Sprintf("%s/portal/%s", s.portalBaseURL, project.Slug)

	emailSent := false
	if sendEmail {
		if err := s.sendAccessEmail(ctx, email, name, project.Name, portalURL, password, false); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("access email failed")
		} else {
			emailSent = true
		}
	}

	return &GrantResult{URL: portalURL, Password: password, EmailSent: emailSent}, nil
}

func (s *ClientAccessService) List(ctx context.Context, projectID string) ([]model.ProjectAccess, error) {
	rows, err := s.db.Query(ctx,
		`SELECT pa.project_id, pa.user_id, u.email, u.name, pa.permissions, pa.created_at
		 FROM project_access pa
		 JOIN users u ON u.id = pa.user_id
		 WHERE pa.project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list access of project %s: %w", projectID, err)
	}
	defer rows.Close()

	access := []model.ProjectAccess{}
	for rows.Next() {
		var a model.ProjectAccess
		if err := rows.Scan(&a.ProjectID, &a.UserID, &a.Email, &a.Name, &a.Permissions, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project access: %w", err)
		}
		access = append(access, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project access: %w", err)
	}
	return access, nil
}

func (s *ClientAccessService) Revoke(ctx context.Context, projectID, userID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM project_access WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("revoke access of user %s: %w", userID, err)
	}
	return nil
}

// Resend regenerates the user's password and emails the new credentials.
// Unlike Grant, a mail failure here is an error the admin must see.
func (s *ClientAccessService) Resend(ctx context.Context, project *model.Project, userID string) (string, error) {
	access, err := s.List(ctx, project.ID)
	if err != nil {
		return "", err
	}
	var grant *model.ProjectAccess
	for i := range access {
		if access[i].UserID == userID {
			grant = &access[i]
			break
		}
	}
	if grant == nil {
		return "", fmt.Errorf("access for user %s: %w", userID, ErrNotFound)
	}

	password, err := generatePassword()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, string(hash), userID); err != nil {
		return "", fmt.Errorf("update password of user %s: %w", userID, err)
	}

	portalURL := fmt.Sprintf("%s/portal/%s", s.portalBaseURL, project.Slug)
	if err := s.sendAccessEmail(ctx, grant.Email, grant.Name, project.Name, portalURL, password, true); err != nil {
		return "", fmt.Errorf("send access email: %w", err)
	}
	return password, nil
}

func (s *ClientAccessService) sendAccessEmail(ctx context.Context, to, name, projectName, portalURL, password string, resend bool) error {
	if s.mailSender == "" {
		return fmt.Errorf("no mail sender configured")
	}

	subject := fmt.Sprintf("Acceso al portal de %s", projectName)
	if resend {
		subject = fmt.Sprintf("Nuevas credenciales para el portal de %s", projectName)
	}
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Tienes acceso al portal del proyecto <b>%s</b>.</p>
<p>URL: <a href="%s">%s</a><br>Usuario: %s<br>Contraseña: <b>%s</b></p>
<p>Un saludo,<br>Plain Vanilla</p>`,
		name, projectName, portalURL, portalURL, to, password)

	return s.gc.SendMail(ctx, s.mailSender, to, subject, body)
}

// generatePassword returns an 8-character upper-case hex password.
func generatePassword() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
