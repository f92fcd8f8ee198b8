package domain

import "time"

// Interview practice request statuses. Shares Pending/Scheduled/Completed/
// Closed with counseling; Reviewed is specific to this flow.
const StatusReviewed = "Reviewed"

type InterviewRequest struct {
	RequestID      string     `json:"id" dynamodbav:"request_id"`
	Name           string     `json:"name" dynamodbav:"name"`
	Email          string     `json:"email" dynamodbav:"email"`
	Role           string     `json:"role" dynamodbav:"role"`
	Experience     string     `json:"experience" dynamodbav:"experience"`
	Availability   string     `json:"availability" dynamodbav:"availability"`
	ResumeKey      string     `json:"-" dynamodbav:"resume_key"`
	ResumeFilename string     `json:"resume_filename,omitempty" dynamodbav:"resume_filename"`
	MeetingTime    *time.Time `json:"meeting_time,omitempty" dynamodbav:"meeting_time"`
	MeetingLink    string     `json:"meeting_link,omitempty" dynamodbav:"meeting_link"`
	Status         string     `json:"status" dynamodbav:"status"`
	CreatedAt      time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateInterviewRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
	// Optional resume PDF, base64-encoded. Stored in S3, never in the table.
	ResumeBase64   string `json:"resume_base64"`
	ResumeFilename string `json:"resume_filename"`
}

type UpdateInterviewRequest struct {
	Status      *string `json:"status" validate:"omitempty,oneof=Pending Reviewed Scheduled Completed Closed"`
	MeetingTime *string `json:"meeting_time"` // RFC 3339
	MeetingLink *string `json:"meeting_link"`
}

// AdminStats is the dashboard counters payload.
type AdminStats struct {
	CounselingRequests int `json:"counseling_requests"`
	InterviewRequests  int `json:"interview_requests"`
	TodaysRequests     int `json:"todays_requests"`
	ScheduledMeetings  int `json:"scheduled_meetings"`
}
