package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type seedEmployee struct {
	Name        string
	Designation string
	Department  string
	Email       string
	Joined      time.Time
	KRAs        [][2]string
	KPIs        []seedKPI
	Appraisal   *seedAppraisal
	Goals       []string
	Feedback    []seedFeedback
}

type seedKPI struct {
	Metric string
	Target float64
	Actual float64
	Unit   string
}

type seedAppraisal struct {
	Year     int
	Rating   float64
	Reviewer string
	Comments string
}

type seedFeedback struct {
	Reviewer     string
	Relationship string
	Rating       float64
	Comments     string
}

var demoEmployees = []seedEmployee{
	{
		Name:        "Asha Raman",
		Designation: "Senior Engineer",
		Department:  "engineering",
		Email:       "asha.raman@example.com",
		Joined:      time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC),
		KRAs: [][2]string{
			{"Platform reliability", "Keep the core services within their availability targets."},
			{"Mentoring", "Onboard and coach two junior engineers."},
		},
		KPIs:      []seedKPI{{Metric: "Service availability", Target: 99.9, Actual: 99.95, Unit: "%"}},
		Appraisal: &seedAppraisal{Year: 2024, Rating: 4.5, Reviewer: "Vikram Shah", Comments: "Consistently strong delivery."},
		Feedback: []seedFeedback{
			{Reviewer: "Vikram Shah", Relationship: "manager", Rating: 4.5, Comments: "Owns incidents end to end."},
			{Reviewer: "Neha Iyer", Relationship: "peer", Rating: 4, Comments: "Great design reviews."},
			{Reviewer: "Rohan Das", Relationship: "subordinate", Rating: 5, Comments: "Very patient mentor."},
		},
	},
	{
		Name:        "Vikram Shah",
		Designation: "Engineering Manager",
		Department:  "engineering",
		Email:       "vikram.shah@example.com",
		Joined:      time.Date(2016, time.July, 18, 0, 0, 0, 0, time.UTC),
		KRAs:        [][2]string{{"Team delivery", "Ship the quarterly roadmap."}},
		KPIs: []seedKPI{
			{Metric: "Roadmap items shipped", Target: 12, Actual: 10, Unit: "items"},
			{Metric: "Attrition", Target: 5, Actual: 3, Unit: "%"},
		},
		Goals: []string{"Hire two backend engineers", "Introduce on-call rotation"},
	},
	{
		Name:        "Neha Iyer",
		Designation: "HR Business Partner",
		Department:  "people",
		Email:       "neha.iyer@example.com",
		Joined:      time.Date(2021, time.January, 11, 0, 0, 0, 0, time.UTC),
	},
}

// Seed inserts a small demo data set when the employee table is empty.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employee").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, emp := range demoEmployees {
		if err := seedOne(ctx, tx, emp); err != nil {
			return fmt.Errorf("seed %s: %w", emp.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func seedOne(ctx context.Context, tx pgx.Tx, emp seedEmployee) error {
	var empID int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO employee (name, designation, department, email, date_of_joining)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING emp_id
  `, emp.Name, emp.Designation, emp.Department, emp.Email, emp.Joined).Scan(&empID); err != nil {
		return err
	}

	for _, kra := range emp.KRAs {
		if _, err := tx.Exec(ctx, "INSERT INTO kra (emp_id, title, description, weightage) VALUES ($1,$2,$3,$4)",
			empID, kra[0], kra[1], 100/float64(len(emp.KRAs))); err != nil {
			return err
		}
	}
	for _, kpi := range emp.KPIs {
		if _, err := tx.Exec(ctx, "INSERT INTO kpi (emp_id, metric, target, actual, unit) VALUES ($1,$2,$3,$4,$5)",
			empID, kpi.Metric, kpi.Target, kpi.Actual, kpi.Unit); err != nil {
			return err
		}
	}
	if a := emp.Appraisal; a != nil {
		if _, err := tx.Exec(ctx, "INSERT INTO appraisal (emp_id, appraisal_year, rating, reviewer, comments) VALUES ($1,$2,$3,$4,$5)",
			empID, a.Year, a.Rating, a.Reviewer, a.Comments); err != nil {
			return err
		}
	}
	for _, goal := range emp.Goals {
		if _, err := tx.Exec(ctx, "INSERT INTO goals (emp_id, title) VALUES ($1,$2)", empID, goal); err != nil {
			return err
		}
	}
	for _, fb := range emp.Feedback {
		if _, err := tx.Exec(ctx, "INSERT INTO feedback (emp_id, reviewer, relationship, rating, comments) VALUES ($1,$2,$3,$4,$5)",
			empID, fb.Reviewer, fb.Relationship, fb.Rating, fb.Comments); err != nil {
			return err
		}
	}
	return nil
}
