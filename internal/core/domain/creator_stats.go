package domain

import "github.com/shopspring/decimal"

// CreatorStats aggregates a creator's performance across owned courses.
type CreatorStats struct {
	CreatorID     string          `json:"creatorID"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalStudents int64           `json:"totalStudents"`
	ActiveCourses int             `json:"activeCourses"`
	TotalCourses  int             `json:"totalCourses"`
}
