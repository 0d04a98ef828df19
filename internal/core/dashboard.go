package core

import (
	"context"
	"fmt"
)

// DashboardStats holds the aggregate counts the admin dashboard shows.
type DashboardStats struct {
	Projects            int           `json:"projects"`
	ProjectsActive      int           `json:"projects_active"`
	ProjectsCompleted   int           `json:"projects_completed"`
	ProjectsProvisioned int           `json:"projects_provisioned"`
	TasksPending        int           `json:"tasks_pending"`
	SessionsUpcoming    int           `json:"sessions_upcoming"`
	PortalUsers         int           `json:"portal_users"`
	ProjectsByStatus    []StatusCount `json:"projects_by_status"`
	RevenueBase         float64       `json:"revenue_base"`
}

// StatusCount holds a count grouped by status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DashboardService queries aggregate stats.
type DashboardService struct {
	db DB
}

func NewDashboardService(db DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats returns aggregate counts using a single query with CTEs, plus the
// per-status breakdown.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	const countsQuery = `
		WITH project_count AS (
			SELECT count(*) AS c FROM projects
		), project_active AS (
			SELECT count(*) AS c FROM projects WHERE status = 'active'
		), project_completed AS (
			SELECT count(*) AS c FROM projects WHERE status = 'completed'
		), project_provisioned AS (
			SELECT count(*) AS c FROM projects WHERE planner_group_id IS NOT NULL
		), task_pending AS (
			SELECT count(*) AS c FROM tasks WHERE status = 'pending'
		), session_upcoming AS (
			SELECT count(*) AS c FROM sessions WHERE date >= current_date
		), portal_users AS (
			SELECT count(*) AS c FROM users WHERE role = 'client'
		), revenue AS (
			SELECT COALESCE(sum(pricing_base), 0) AS c FROM projects WHERE status != 'archived'
		)
		SELECT
			(SELECT c FROM project_count),
			(SELECT c FROM project_active),
			(SELECT c FROM project_completed),
			(SELECT c FROM project_provisioned),
			(SELECT c FROM task_pending),
			(SELECT c FROM session_upcoming),
			(SELECT c FROM portal_users),
			(SELECT c FROM revenue)`

	stats := &DashboardStats{}
	err := s.db.QueryRow(ctx, countsQuery).Scan(
		&stats.Projects,
		&stats.ProjectsActive,
		&stats.ProjectsCompleted,
		&stats.ProjectsProvisioned,
		&stats.TasksPending,
		&stats.SessionsUpcoming,
		&stats.PortalUsers,
		&stats.RevenueBase,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT status, count(*) FROM projects GROUP BY status ORDER BY count(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("dashboard projects by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.ProjectsByStatus = append(stats.ProjectsByStatus, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return stats, nil
}
