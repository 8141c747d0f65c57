package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "coopvest-backend/internal/adapter/http"
	"coopvest-backend/internal/adapter/middleware"
	"coopvest-backend/internal/adapter/repository/mysql"
	"coopvest-backend/internal/audit"
	"coopvest-backend/internal/config"
	"coopvest-backend/internal/infrastructure/cache"
	"coopvest-backend/internal/infrastructure/db"
	"coopvest-backend/internal/jobs"
	ucApplication "coopvest-backend/internal/usecase/application"
	ucFeature "coopvest-backend/internal/usecase/feature"
	ucGuarantor "coopvest-backend/internal/usecase/guarantor"
	ucLoan "coopvest-backend/internal/usecase/loan"
	ucLoanType "coopvest-backend/internal/usecase/loantype"
	ucQR "coopvest-backend/internal/usecase/qr"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connect failed")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect failed")
	}

	// repositories
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	applications := mysql.NewApplicationRepository(gdb)
	loanTypes := mysql.NewLoanTypeRepository(gdb)
	guarantors := mysql.NewGuarantorRepository(gdb)
	invitations := mysql.NewInvitationRepository(gdb)
	qrTokens := mysql.NewQRTokenRepository(gdb)
	features := mysql.NewFeatureRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	txm := mysql.NewGormUoW(gdb)
	sink := audit.NewGormSink(gdb, log)

	// usecases
	featureUC := ucFeature.NewUsecase(features, rdb, log)
	loanUC := ucLoan.NewUsecase(loans, payments, loanTypes, users, txm, sink)
	applicationUC := ucApplication.NewUsecase(applications, loanTypes, users, txm, sink)
	guarantorUC := ucGuarantor.NewUsecase(guarantors, invitations, loans, users, txm, featureUC, sink, cfg.AppBaseURL)
	qrUC := ucQR.NewUsecase(qrTokens, loans, txm, sink)
	loanTypeUC := ucLoanType.NewUsecase(loanTypes)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := loanTypeUC.Seed(ctx); err != nil {
		log.WithError(err).Fatal("loan type seed failed")
	}
	cancel()

	// background sweeps
	sched := jobs.NewScheduler(log)
	if err := sched.RegisterExpirySweep(cfg.SweepCron, qrUC, guarantorUC); err != nil {
		log.WithError(err).Fatal("expiry sweep registration failed")
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	h := &httpadp.Handlers{
		Health:       httpadp.NewHandler(),
		Loans:        httpadp.NewLoanHandler(loanUC),
		Applications: httpadp.NewApplicationHandler(applicationUC),
		Guarantors:   httpadp.NewGuarantorHandler(guarantorUC),
		QR:           httpadp.NewQRHandler(qrUC),
		LoanTypes:    httpadp.NewLoanTypeHandler(loanTypeUC),
		Features:     httpadp.NewFeatureHandler(featureUC),
	}
	h.Register(e,
		middleware.Auth([]byte(cfg.JWTSecret)),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
	)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
