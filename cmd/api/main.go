package main

import (
	"fmt"
	"net/http"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/config"
	appHTTP "github.com/sitepatrol/sitepatrol-backend-go/internal/handler/http"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/cron"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/jwt"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sitepatrol/sitepatrol-backend-go/internal/service/attendance"
	serviceAuth "github.com/sitepatrol/sitepatrol-backend-go/internal/service/auth"
	deploymentService "github.com/sitepatrol/sitepatrol-backend-go/internal/service/deployment"
	rosterService "github.com/sitepatrol/sitepatrol-backend-go/internal/service/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	personRepo := postgresql.NewPersonRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := serviceAuth.NewAuthService(personRepo, jwtService)
	deploymentSvc := deploymentService.NewDeploymentService(assignmentRepo, personRepo, shiftRepo, cfg.Attendance.MaxRangeDays)
	rosterSvc := rosterService.NewRosterService(assignmentRepo, personRepo, shiftRepo, cfg.Attendance.MaxRangeDays)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		personRepo,
		siteRepo,
		deploymentSvc,
		cfg.Attendance.AllowMultipleCycles,
	)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	deploymentHandler := appHTTP.NewDeploymentHandler(deploymentSvc, rosterSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, cfg.Attendance.MaxOpenSessionHours)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		deploymentHandler,
		attendanceHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
