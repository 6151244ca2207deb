package main

import (
	"fmt"
	"net/http"

	"github.com/chronohr/attendance-backend-go/internal/config"
	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	appHTTP "github.com/chronohr/attendance-backend-go/internal/handler/http"
	"github.com/chronohr/attendance-backend-go/internal/pkg/cron"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/pkg/jwt"
	"github.com/chronohr/attendance-backend-go/internal/pkg/terminal"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/chronohr/attendance-backend-go/internal/service/attendance"
	payrollService "github.com/chronohr/attendance-backend-go/internal/service/payroll"
	periodService "github.com/chronohr/attendance-backend-go/internal/service/period"
	"github.com/shopspring/decimal"
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

	staffRepo := postgresql.NewStaffRepository(db)
	recordRepo := postgresql.NewAttendanceRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	terminalClient := terminal.NewClient(cfg.Terminal)

	lifecycleSvc := periodService.NewLifecycleService(db, periodRepo, recordRepo, auditRepo)
	ingestionSvc := attendanceService.NewIngestionService(db, recordRepo, staffRepo, auditRepo, lifecycleSvc, terminalClient)
	payrollDefaults := payroll.ThresholdDefaults{
		DailyOvertimeThreshold:  decimal.NewFromFloat(cfg.Payroll.DailyOvertimeThreshold),
		WeeklyOvertimeThreshold: decimal.NewFromFloat(cfg.Payroll.WeeklyOvertimeThreshold),
	}
	calculatorSvc := payrollService.NewCalculatorService(db, payrollRepo, periodRepo, recordRepo, staffRepo, auditRepo, payrollDefaults)

	attendanceHandler := appHTTP.NewAttendanceHandler(ingestionSvc)
	periodHandler := appHTTP.NewPeriodHandler(lifecycleSvc)
	payrollHandler := appHTTP.NewPayrollHandler(calculatorSvc)
	reportHandler := appHTTP.NewReportHandler(reportRepo)
	auditHandler := appHTTP.NewAuditHandler(auditRepo)

	scheduler := cron.NewScheduler()
	terminalJobs := cron.NewTerminalJobs(ingestionSvc, cfg.Terminal.PollInterval)
	if cfg.Terminal.BaseURL != "" {
		terminalJobs.RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		periodHandler,
		payrollHandler,
		reportHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
