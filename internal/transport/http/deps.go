package http

import (
	"github.com/wemakecorder/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/wemakecorder/api/internal/infrastructure/jwt"
	s3infra "github.com/wemakecorder/api/internal/infrastructure/s3"
	"github.com/wemakecorder/api/internal/infrastructure/smtp"
	"github.com/wemakecorder/api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo       *dynamo.UserRepo
	AdminRepo      *dynamo.AdminRepo
	OTPRepo        *dynamo.OTPRepo
	CourseRepo     *dynamo.CourseRepo
	CounselingRepo *dynamo.CounselingRepo
	InterviewRepo  *dynamo.InterviewRepo
	S3Store        *s3infra.Store
	Mailer         smtp.Mailer
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
}
