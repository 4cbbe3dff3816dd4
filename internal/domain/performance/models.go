package performance

import "time"

type Employee struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Designation   string     `json:"designation"`
	Department    string     `json:"department"`
	Email         string     `json:"email"`
	DateOfJoining *time.Time `json:"dateOfJoining,omitempty"`
}

// KRA is a key result area assigned to an employee.
type KRA struct {
	ID          int64   `json:"id"`
	EmployeeID  int64   `json:"employeeId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Weightage   float64 `json:"weightage"`
}

// KPI is a measurable indicator with a target and the value achieved so far.
type KPI struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employeeId"`
	Metric     string  `json:"metric"`
	Target     float64 `json:"target"`
	Actual     float64 `json:"actual"`
	Unit       string  `json:"unit"`
}

// Attainment is Actual as a fraction of Target. A zero target yields 0.
func (k KPI) Attainment() float64 {
	if k.Target == 0 {
		return 0
	}
	return k.Actual / k.Target
}

// Appraisal is the annual review. An employee has at most one per year.
type Appraisal struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employeeId"`
	Year       int     `json:"year"`
	Rating     float64 `json:"rating"`
	Reviewer   string  `json:"reviewer"`
	Comments   string  `json:"comments"`
	Status     string  `json:"status"`
}

type Goal struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress"`
}

// Feedback is a single 360° feedback entry.
type Feedback struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employeeId"`
	Reviewer     string    `json:"reviewer"`
	Relationship string    `json:"relationship"`
	Rating       float64   `json:"rating"`
	Comments     string    `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile aggregates every record keyed by one employee id. Appraisal is nil
// when no appraisal row exists.
type Profile struct {
	Employee  Employee       `json:"employee"`
	KRAs      []KRA          `json:"kras"`
	KPIs      []KPI          `json:"kpis"`
	Appraisal *Appraisal     `json:"appraisal"`
	Goals     []Goal         `json:"goals"`
	Feedback  []Feedback     `json:"feedback"`
	Summary   ProfileSummary `json:"summary"`
}

type ProfileSummary struct {
	KRACount              int            `json:"kraCount"`
	KPICount              int            `json:"kpiCount"`
	GoalCount             int            `json:"goalCount"`
	GoalsCompleted        int            `json:"goalsCompleted"`
	FeedbackCount         int            `json:"feedbackCount"`
	AverageKPIAttainment  float64        `json:"averageKpiAttainment"`
	AverageFeedbackRating float64        `json:"averageFeedbackRating"`
	FeedbackByRelation    map[string]int `json:"feedbackByRelationship"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Employees  int    `json:"employees"`
}

// Directory is the home page listing.
type Directory struct {
	Employees   []Employee        `json:"employees"`
	Departments []DepartmentCount `json:"departments"`
}
