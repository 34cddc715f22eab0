// Package stats computes the figures shown on dashboards and reports.
// Every function is pure: empty input yields zero values, never NaN.
package stats

import (
	"math"
	"time"
)

// Attendance statuses, mirrored from the attendance package to keep stats dependency free.
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusLate    = "LATE"
)

// Round2 rounds v half-up to 2 decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Percent returns part/total*100 rounded to 2 decimals, 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// AttendanceRate is the share of PRESENT records; LATE and ABSENT are not counted as present.
func AttendanceRate(statuses []string) float64 {
	var present int
	for _, s := range statuses {
		if s == StatusPresent {
			present++
		}
	}
	return Percent(present, len(statuses))
}

type AttendanceSummary struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Rate    float64 `json:"rate"`
}

func SummarizeAttendance(statuses []string) AttendanceSummary {
	sum := AttendanceSummary{Total: len(statuses)}
	for _, s := range statuses {
		switch s {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		}
	}
	sum.Rate = Percent(sum.Present, sum.Total)
	return sum
}

// Grade buckets
const (
	BucketA = "A" // >= 90
	BucketB = "B" // [80, 90)
	BucketC = "C" // [70, 80)
	BucketD = "D" // [60, 70)
	BucketF = "F" // < 60
)

func Bucket(grade float64) string {
	switch {
	case grade >= 90:
		return BucketA
	case grade >= 80:
		return BucketB
	case grade >= 70:
		return BucketC
	case grade >= 60:
		return BucketD
	default:
		return BucketF
	}
}

type GradeDistribution struct {
	A       int     `json:"A"`
	B       int     `json:"B"`
	C       int     `json:"C"`
	D       int     `json:"D"`
	F       int     `json:"F"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

func DistributeGrades(grades []float64) GradeDistribution {
	dist := GradeDistribution{Count: len(grades)}
	if len(grades) == 0 {
		return dist
	}

	var sum float64
	for _, g := range grades {
		sum += g
		switch Bucket(g) {
		case BucketA:
			dist.A++
		case BucketB:
			dist.B++
		case BucketC:
			dist.C++
		case BucketD:
			dist.D++
		default:
			dist.F++
		}
	}
	dist.Average = Round2(sum / float64(len(grades)))
	return dist
}

// SemesterGPA is one report snapshot's contribution to a GPA.
type SemesterGPA struct {
	Semester  int
	GPA       float64
	CreatedAt time.Time
}

// GPA averages the most recent snapshot of each semester.
func GPA(reports []SemesterGPA) float64 {
	if len(reports) == 0 {
		return 0
	}

	latest := make(map[int]SemesterGPA, len(reports))
	for _, r := range reports {
		if cur, ok := latest[r.Semester]; !ok || r.CreatedAt.After(cur.CreatedAt) {
			latest[r.Semester] = r
		}
	}

	var sum float64
	for _, r := range latest {
		sum += r.GPA
	}
	return Round2(sum / float64(len(latest)))
}

// CompletionRate is the share of graded submissions.
func CompletionRate(graded, total int) float64 {
	return Percent(graded, total)
}

// CourseProgress is the share of a course's assignments that were graded for a student.
func CourseProgress(completed, total int) float64 {
	return Percent(completed, total)
}
