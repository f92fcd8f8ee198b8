package domain

import "time"

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

type Course struct {
	CourseID    string    `json:"id" dynamodbav:"course_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Duration    string    `json:"duration" dynamodbav:"duration"`
	Level       string    `json:"level" dynamodbav:"level"`
	Published   bool      `json:"published" dynamodbav:"published"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration"`
	Level       string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Published   bool   `json:"published"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	Level       *string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Published   *bool   `json:"published"`
}
