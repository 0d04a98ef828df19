package core

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/platform"
)

// ErrUnauthorized marks failed portal credentials or tokens.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden marks an authenticated portal user acting outside their
// grants.
var ErrForbidden = errors.New("forbidden")

// PortalService serves the client-facing portal: login, the project view
// restricted to public tasks, client task updates and project messages.
type PortalService struct {
	db DB
}

func NewPortalService(db DB) *PortalService {
	return &PortalService{db: db}
}

// PortalProjectRef is the slim project listing returned at login.
type PortalProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LoginResult carries the opaque bearer token and the projects the client
// can open.
type LoginResult struct {
	Token    string             `json:"token"`
	Projects []PortalProjectRef `json:"projects"`
}

func (s *PortalService) getUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, microsoft_id, role, created_at FROM users WHERE email = $1`,
		email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.MicrosoftID, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %s: %w", email, err)
	}
	return &u, nil
}

// Login verifies the client's credentials and, when slug is given, that
// the client has access to that project. The token is opaque to clients
// and invalidated whenever the password is regenerated.
func (s *PortalService) Login(ctx context.Context, email, password, slug string) (*LoginResult, error) {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}

	projects, err := s.userProjects(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if slug != "" {
		found := false
		for _, p := range projects {
			if p.Slug == slug {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnauthorized
		}
	}

	token := base64.StdEncoding.EncodeToString([]byte(email + ":" + *user.PasswordHash))
	return &LoginResult{Token: token, Projects: projects}, nil
}

// VerifyToken resolves a portal bearer token back to its user.
func (s *PortalService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	email, hash, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(*user.PasswordHash)) != 1 {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *PortalService) userProjects(ctx context.Context, userID string) ([]PortalProjectRef, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.name, p.slug
		 FROM projects p JOIN project_access pa ON pa.project_id = p.id
		 WHERE pa.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects of user %s: %w", userID, err)
	}
	defer rows.Close()

	projects := []PortalProjectRef{}
	for rows.Next() {
		var p PortalProjectRef
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug); err != nil {
			return nil, fmt.Errorf("scan project ref: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project refs: %w", err)
	}
	return projects, nil
}

// HasAccess reports whether the user holds a grant on the project.
func (s *PortalService) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx,
		`SELECT 1 FROM project_access WHERE project_id = $1 AND user_id = $2`,
		projectID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return true, nil
}

// FilterForClient strips a project down to what the portal shows: only
// public tasks.
func FilterForClient(p *model.Project) {
	public := make([]model.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if t.Visibility == "public" {
			public = append(public, t)
		}
	}
	p.Tasks = public
}

// CanUpdateTask reports whether the client may change this task: only
// tasks assigned to them are theirs to update.
func CanUpdateTask(task *model.Task, user *model.User) bool {
	for _, a := range task.Assignees {
		if strings.EqualFold(a.Email, user.Email) {
			return true
		}
	}
	return false
}

func (s *PortalService) Messages(ctx context.Context, projectID string) ([]model.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT m.id, m.project_id, m.user_id, u.name, u.email, m.content, m.created_at
		 FROM messages m LEFT JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = $1 ORDER BY m.created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list messages of project %s: %w", projectID, err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.UserName, &m.UserEmail, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (s *PortalService) CreateMessage(ctx context.Context, projectID, userID, content string) (*model.Message, error) {
	m := &model.Message{ID: platform.NewShortID(), ProjectID: projectID, UserID: &userID, Content: content}
	err := s.db.QueryRow(ctx,
		`INSERT INTO messages (id, project_id, user_id, content) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		m.ID, projectID, userID, content).Scan(&m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}
