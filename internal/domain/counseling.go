package domain

import "time"

// Counseling request statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusScheduled  = "Scheduled"
	StatusCompleted  = "Completed"
	StatusClosed     = "Closed"
)

type CounselingRequest struct {
	RequestID string    `json:"id" dynamodbav:"request_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Goal      string    `json:"goal" dynamodbav:"goal"`
	Message   string    `json:"message" dynamodbav:"message"`
	Status    string    `json:"status" dynamodbav:"status"`
	Notes     string    `json:"notes" dynamodbav:"notes"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateCounselingRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Goal    string `json:"goal" validate:"required"`
	Message string `json:"message"`
}

type UpdateCounselingRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Scheduled Completed Closed"`
	Notes  *string `json:"notes"`
}
