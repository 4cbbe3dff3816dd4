package performance

import "context"

type ProfileStore interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	LoadProfile(ctx context.Context, employeeID int64) (Profile, error)
}
