package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/config"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	appHTTP "github.com/cmlabs-hris/workforce-payroll/internal/handler/http"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/observer"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/postgresql"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/workforce-payroll/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/workforce-payroll/internal/service/leave"
	payrollService "github.com/cmlabs-hris/workforce-payroll/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/workforce-payroll/internal/service/salary"
	"github.com/go-chi/httplog/v3"
	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// stores is the driver-specific half of the wiring.
type stores struct {
	tx         database.Transactor
	employees  employee.Directory
	salary     salary.Repository
	attendance attendance.Repository
	leaveTypes leave.TypeRepository
	leaveBal   leave.BalanceRepository
	leaveReqs  leave.RequestRepository
	payroll    payroll.Repository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.IsDevelopment())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-payroll"),
		slog.String("env", cfg.App.Env),
	)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		return &stores{
			tx:         sqlite.NewTransactor(db),
			employees:  sqlite.NewEmployeeRepository(db),
			salary:     sqlite.NewSalaryComponentRepository(db),
			attendance: sqlite.NewAttendanceRepository(db),
			leaveTypes: sqlite.NewLeaveTypeRepository(db),
			leaveBal:   sqlite.NewLeaveBalanceRepository(db),
			leaveReqs:  sqlite.NewLeaveRequestRepository(db),
			payroll:    sqlite.NewPayrollRepository(db),
			close:      func() { db.Close() },
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return &stores{
			tx:         postgresql.NewTransactor(db),
			employees:  postgresql.NewEmployeeRepository(db),
			salary:     postgresql.NewSalaryComponentRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			leaveTypes: postgresql.NewLeaveTypeRepository(db),
			leaveBal:   postgresql.NewLeaveBalanceRepository(db),
			leaveReqs:  postgresql.NewLeaveRequestRepository(db),
			payroll:    postgresql.NewPayrollRepository(db),
			close:      db.Close,
		}, nil
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	calendar := utils.NewCalendar(clock.WallClock, loc)

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observer.NewMetrics()
	registry.MustRegister(metrics)

	hub := sse.NewHub()
	obs := audit.Multi{
		observer.NewLogger(logger.With(slog.String("component", "audit"))),
		metrics,
		observer.NewBroadcaster(hub),
	}

	salarySvc := salaryService.NewSalaryService(st.tx, st.salary, st.employees, calendar, obs)
	attendanceSvc := attendanceService.NewAttendanceService(st.tx, st.attendance, st.employees, calendar, obs, cfg.Attendance.StandardWorkHours)
	leaveSvc := leaveService.NewLeaveService(st.tx, st.leaveTypes, st.leaveBal, st.leaveReqs, st.employees, calendar, obs)
	payrollSvc := payrollService.NewPayrollService(st.tx, st.payroll, st.employees, salarySvc, attendanceSvc, calendar, obs)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(logger, cfg.App.CORSOrigins, JWTService, registry, appHTTP.Handlers{
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Salary:     appHTTP.NewSalaryHandler(salarySvc, calendar),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, calendar),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Events:     appHTTP.NewEventsHandler(hub, JWTService),
	})

	scheduler := cron.NewScheduler(clock.WallClock, logger.With(slog.String("component", "cron")))
	jobs := cron.NewPeriodJobs(payrollSvc, leaveSvc, calendar, cfg.Cron.PayrollSystemActor)
	jobs.RegisterJobs(scheduler, cfg.Cron.PayrollInterval, cfg.Cron.PayrollAutoGenerate, cfg.Cron.LeaveAutoAllocate)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server running",
			slog.String("addr", server.Addr),
			slog.String("driver", cfg.Database.Driver),
			slog.String("jobs", strings.Join(scheduledJobs(cfg), ",")),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gCtx.Done()
		scheduler.Stop()
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func scheduledJobs(cfg *config.Config) []string {
	var names []string
	if cfg.Cron.PayrollAutoGenerate {
		names = append(names, cron.JobPayrollPeriodOpener)
	}
	if cfg.Cron.LeaveAutoAllocate {
		names = append(names, cron.JobLeaveBalanceAllocator)
	}
	return names
}
