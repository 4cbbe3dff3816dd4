package performance

import "sort"

func buildSummary(p Profile) ProfileSummary {
	summary := ProfileSummary{
		KRACount:           len(p.KRAs),
		KPICount:           len(p.KPIs),
		GoalCount:          len(p.Goals),
		FeedbackCount:      len(p.Feedback),
		FeedbackByRelation: map[string]int{},
	}

	for _, goal := range p.Goals {
		if goal.Status == GoalStatusCompleted {
			summary.GoalsCompleted++
		}
	}

	measured := 0
	attainment := 0.0
	for _, kpi := range p.KPIs {
		if kpi.Target == 0 {
			continue
		}
		attainment += kpi.Attainment()
		measured++
	}
	if measured > 0 {
		summary.AverageKPIAttainment = attainment / float64(measured)
	}

	ratings := 0.0
	for _, feedback := range p.Feedback {
		ratings += feedback.Rating
		summary.FeedbackByRelation[feedback.Relationship]++
	}
	if len(p.Feedback) > 0 {
		summary.AverageFeedbackRating = ratings / float64(len(p.Feedback))
	}
	return summary
}

func buildDirectory(employees []Employee) Directory {
	counts := map[string]int{}
	for _, emp := range employees {
		counts[emp.Department]++
	}

	departments := make([]DepartmentCount, 0, len(counts))
	for name, count := range counts {
		departments = append(departments, DepartmentCount{Department: name, Employees: count})
	}
	sort.Slice(departments, func(i, j int) bool {
		if departments[i].Employees == departments[j].Employees {
			return departments[i].Department < departments[j].Department
		}
		return departments[i].Employees > departments[j].Employees
	})

	return Directory{Employees: employees, Departments: departments}
}
