package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wemakecorder/api/internal/application/auth"
	"github.com/wemakecorder/api/internal/application/counseling"
	courseapp "github.com/wemakecorder/api/internal/application/course"
	"github.com/wemakecorder/api/internal/application/interview"
	"github.com/wemakecorder/api/internal/application/registration"
	"github.com/wemakecorder/api/internal/application/request"
	"github.com/wemakecorder/api/internal/application/stats"
	userapp "github.com/wemakecorder/api/internal/application/user"
	"github.com/wemakecorder/api/internal/config"
	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/transport/http/handler"
	appmiddleware "github.com/wemakecorder/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// Per-IP limits on abuse-prone public endpoints.
	sendOTPRL := appmiddleware.NewRateLimiter(rate.Every(5*time.Minute), 3)  // 3 / 15 min
	resendOTPRL := appmiddleware.NewRateLimiter(rate.Every(time.Minute), 1)  // 1 / 60 s
	loginRL := appmiddleware.NewRateLimiter(rate.Every(3*time.Minute), 5)    // 5 / 15 min
	submitRL := appmiddleware.NewRateLimiter(rate.Every(12*time.Minute), 5)  // 5 / hour

	regSvc := registration.NewService(registration.ServiceDeps{
		OTPRepo:  deps.OTPRepo,
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		JWT:      deps.JWTProvider,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		AdminRepo: deps.AdminRepo,
		JWT:       deps.JWTProvider,
	})
	counselingSvc := counseling.NewService(deps.CounselingRepo)
	interviewSvc := interview.NewService(interview.ServiceDeps{
		InterviewRepo: deps.InterviewRepo,
		UserRepo:      deps.UserRepo,
		Resumes:       deps.S3Store,
		SMS:           deps.SMSSender,
	})
	courseSvc := courseapp.NewService(courseapp.ServiceDeps{
		CourseRepo: deps.CourseRepo,
		UserRepo:   deps.UserRepo,
	})
	requestSvc := request.NewService(request.ServiceDeps{
		CounselingRepo: deps.CounselingRepo,
		InterviewRepo:  deps.InterviewRepo,
	})
	statsSvc := stats.NewService(stats.ServiceDeps{
		CounselingRepo: deps.CounselingRepo,
		InterviewRepo:  deps.InterviewRepo,
	})
	userSvc := userapp.NewService(userapp.ServiceDeps{
		UserRepo:   deps.UserRepo,
		CourseRepo: deps.CourseRepo,
	})

	healthH := handler.NewHealthHandler()
	userAuthH := handler.NewUserAuthHandler(regSvc, authSvc)
	userH := handler.NewUserHandler(userSvc, requestSvc)
	adminH := handler.NewAdminHandler(authSvc, statsSvc)
	counselingH := handler.NewCounselingHandler(counselingSvc, requestSvc)
	interviewH := handler.NewInterviewHandler(interviewSvc)
	courseH := handler.NewCourseHandler(courseSvc)

	r.Get("/health", healthH.Ping)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(submitRL.Limit).Post("/counseling-requests", counselingH.Create)
		r.With(submitRL.Limit).Post("/interview-practice-requests", interviewH.Create)
		r.Get("/courses", courseH.ListPublished)
		r.Get("/my-requests", counselingH.MyRequests)

		r.Route("/users", func(r chi.Router) {
			// Registration flow and login are public.
			r.Route("/auth", func(r chi.Router) {
				r.Post("/check-email", userAuthH.CheckEmail)
				r.With(sendOTPRL.Limit).Post("/send-otp", userAuthH.SendOTP)
				r.Post("/verify-otp", userAuthH.VerifyOTP)
				r.With(resendOTPRL.Limit).Post("/resend-otp", userAuthH.ResendOTP)
				r.Post("/register", userAuthH.Register)
				r.With(loginRL.Limit).Post("/login", userAuthH.Login)
			})

			// ── Authenticated user routes ────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Get("/profile", userH.Profile)
				r.Get("/enrolled-courses", userH.EnrolledCourses)
				r.Get("/interview-practice", userH.InterviewHistory)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(loginRL.Limit).Post("/auth/login", adminH.Login)

			// ── Admin routes ─────────────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/auth/register", adminH.Register)
				r.Get("/stats", adminH.Stats)

				r.Get("/counseling", counselingH.List)
				r.Put("/counseling/{id}", counselingH.Update)

				r.Get("/interview-practice", interviewH.List)
				r.Put("/interview-practice/{id}", interviewH.Update)
				r.Get("/interview-practice/{id}/resume", interviewH.DownloadResume)

				r.Get("/courses", courseH.ListAll)
				r.Post("/courses", courseH.Create)
				r.Put("/courses/{id}", courseH.Update)
				r.Delete("/courses/{id}", courseH.Delete)
				r.Post("/users/{id}/courses", courseH.Enroll)
			})
		})
	})

	return r
}
