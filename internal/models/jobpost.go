package models

import "time"

// WorkTime buckets job posts by total hours for list filtering.
const (
	WorkTimeShort  = "short"  // total_hours <= 4
	WorkTimeMedium = "medium" // 4 < total_hours <= 8
	WorkTimeLong   = "long"   // total_hours > 8
)

// HourlyWage buckets job posts around the 10000 threshold.
const (
	HourlyWageLow  = "low"  // hourly_wage <= 10000
	HourlyWageHigh = "high" // hourly_wage > 10000
)

type JobPost struct {
	ID         int           `json:"id"`
	Title      string        `json:"title"`
	Location   string        `json:"location"`
	Pay        int           `json:"pay"`
	HourlyWage int           `json:"hourlyWage"`
	Date       time.Time     `json:"date"`
	StartTime  string        `json:"startTime"` // "HH:mm"
	EndTime    string        `json:"endTime"`   // "HH:mm"
	TotalHours int           `json:"totalHours"`
	Content    string        `json:"content"`
	ImageURL   *string       `json:"imageUrl"`
	CreatedAt  time.Time     `json:"createdAt"`
	UserID     int           `json:"userId"`
	User       *OwnerSummary `json:"user,omitempty"`
}
