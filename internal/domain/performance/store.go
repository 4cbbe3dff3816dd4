package performance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	return listEmployees(ctx, s.DB)
}

// LoadProfile runs every profile lookup on a single pooled connection which
// is released before returning.
func (s *Store) LoadProfile(ctx context.Context, employeeID int64) (Profile, error) {
	conn, err := s.DB.Acquire(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return loadProfile(ctx, conn, employeeID)
}

func loadProfile(ctx context.Context, q querier, employeeID int64) (Profile, error) {
	var profile Profile
	var err error

	if profile.Employee, err = getEmployee(ctx, q, employeeID); err != nil {
		return Profile{}, err
	}
	if profile.KRAs, err = listKRAs(ctx, q, employeeID); err != nil {
		return Profile{}, fmt.Errorf("list kras: %w", err)
	}
	if profile.KPIs, err = listKPIs(ctx, q, employeeID); err != nil {
		return Profile{}, fmt.Errorf("list kpis: %w", err)
	}
	if profile.Appraisal, err = getAppraisal(ctx, q, employeeID); err != nil {
		return Profile{}, fmt.Errorf("get appraisal: %w", err)
	}
	if profile.Goals, err = listGoals(ctx, q, employeeID); err != nil {
		return Profile{}, fmt.Errorf("list goals: %w", err)
	}
	if profile.Feedback, err = listFeedback(ctx, q, employeeID); err != nil {
		return Profile{}, fmt.Errorf("list feedback: %w", err)
	}
	return profile, nil
}

func listEmployees(ctx context.Context, q querier) ([]Employee, error) {
	rows, err := q.Query(ctx, `
    SELECT emp_id, name, designation, department, email, date_of_joining
    FROM employee
    ORDER BY emp_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.Department, &emp.Email, &emp.DateOfJoining); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func getEmployee(ctx context.Context, q querier, employeeID int64) (Employee, error) {
	var emp Employee
	err := q.QueryRow(ctx, `
    SELECT emp_id, name, designation, department, email, date_of_joining
    FROM employee
    WHERE emp_id = $1
  `, employeeID).Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.Department, &emp.Email, &emp.DateOfJoining)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func listKRAs(ctx context.Context, q querier, employeeID int64) ([]KRA, error) {
	rows, err := q.Query(ctx, `
    SELECT kra_id, emp_id, title, description, weightage
    FROM kra
    WHERE emp_id = $1
    ORDER BY kra_id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kras := make([]KRA, 0)
	for rows.Next() {
		var kra KRA
		if err := rows.Scan(&kra.ID, &kra.EmployeeID, &kra.Title, &kra.Description, &kra.Weightage); err != nil {
			return nil, err
		}
		kras = append(kras, kra)
	}
	return kras, rows.Err()
}

func listKPIs(ctx context.Context, q querier, employeeID int64) ([]KPI, error) {
	rows, err := q.Query(ctx, `
    SELECT kpi_id, emp_id, metric, target, actual, unit
    FROM kpi
    WHERE emp_id = $1
    ORDER BY kpi_id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kpis := make([]KPI, 0)
	for rows.Next() {
		var kpi KPI
		if err := rows.Scan(&kpi.ID, &kpi.EmployeeID, &kpi.Metric, &kpi.Target, &kpi.Actual, &kpi.Unit); err != nil {
			return nil, err
		}
		kpis = append(kpis, kpi)
	}
	return kpis, rows.Err()
}

// getAppraisal returns nil when the employee has no appraisal. If more than
// one row exists the most recent year wins.
func getAppraisal(ctx context.Context, q querier, employeeID int64) (*Appraisal, error) {
	var appraisal Appraisal
	err := q.QueryRow(ctx, `
    SELECT appraisal_id, emp_id, appraisal_year, rating, reviewer, comments, status
    FROM appraisal
    WHERE emp_id = $1
    ORDER BY appraisal_year DESC, appraisal_id DESC
    LIMIT 1
  `, employeeID).Scan(&appraisal.ID, &appraisal.EmployeeID, &appraisal.Year, &appraisal.Rating, &appraisal.Reviewer, &appraisal.Comments, &appraisal.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func listGoals(ctx context.Context, q querier, employeeID int64) ([]Goal, error) {
	rows, err := q.Query(ctx, `
    SELECT goal_id, emp_id, title, description, target_date, status, progress
    FROM goals
    WHERE emp_id = $1
    ORDER BY goal_id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		var goal Goal
		if err := rows.Scan(&goal.ID, &goal.EmployeeID, &goal.Title, &goal.Description, &goal.TargetDate, &goal.Status, &goal.Progress); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func listFeedback(ctx context.Context, q querier, employeeID int64) ([]Feedback, error) {
	rows, err := q.Query(ctx, `
    SELECT feedback_id, emp_id, reviewer, relationship, rating, comments, created_at
    FROM feedback
    WHERE emp_id = $1
    ORDER BY created_at DESC, feedback_id DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := make([]Feedback, 0)
	for rows.Next() {
		var feedback Feedback
		if err := rows.Scan(&feedback.ID, &feedback.EmployeeID, &feedback.Reviewer, &feedback.Relationship, &feedback.Rating, &feedback.Comments, &feedback.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, feedback)
	}
	return feedbacks, rows.Err()
}
