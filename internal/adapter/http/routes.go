package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers bundles the API surface so route registration lives in one place.
type Handlers struct {
	Health       *Handler
	Loans        *LoanHandler
	Applications *ApplicationHandler
	Guarantors   *GuarantorHandler
	QR           *QRHandler
	LoanTypes    *LoanTypeHandler
	Features     *FeatureHandler
}

// Register wires routes onto the echo instance. auth must contain the
// middleware every authenticated route runs behind (token check first,
// then the idempotency guard).
func (h *Handlers) Register(e *echo.Echo, auth ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api/v1", auth...)

	// loan lifecycle
	api.POST("/loans", h.Loans.Apply)
	api.GET("/loans", h.Loans.ListMine)
	api.GET("/loans/pending", h.Loans.ListPending)
	api.GET("/loans/:loan_id", h.Loans.Get)
	api.POST("/loans/:loan_id/approve", h.Loans.Approve)
	api.POST("/loans/:loan_id/reject", h.Loans.Reject)
	api.POST("/loans/:loan_id/disburse", h.Loans.Disburse)
	api.POST("/loans/:loan_id/payments", h.Loans.RecordPayment)
	api.GET("/loans/:loan_id/payments", h.Loans.ListPayments)
	api.GET("/loans/:loan_id/transactions", h.Loans.ListTransactions)
	api.POST("/loans/:loan_id/suspend", h.Loans.Suspend)
	api.POST("/loans/:loan_id/resume", h.Loans.Resume)
	api.POST("/loans/:loan_id/default", h.Loans.MarkDefaulted)

	// staged applications
	api.POST("/applications", h.Applications.Create)
	api.GET("/applications", h.Applications.ListMine)
	api.GET("/applications/:application_id", h.Applications.Get)
	api.PATCH("/applications/:application_id", h.Applications.Update)
	api.POST("/applications/:application_id/submit", h.Applications.Submit)
	api.POST("/applications/:application_id/advance", h.Applications.AdvanceStage)
	api.POST("/applications/:application_id/review", h.Applications.StartReview)
	api.POST("/applications/:application_id/approve", h.Applications.Approve)
	api.POST("/applications/:application_id/reject", h.Applications.Reject)
	api.POST("/applications/:application_id/withdraw", h.Applications.Withdraw)
	api.POST("/applications/:application_id/convert", h.Applications.ConvertToLoan)

	// guarantor recruitment and verification
	api.POST("/loans/:loan_id/guarantors", h.Guarantors.Invite)
	api.GET("/loans/:loan_id/guarantors", h.Guarantors.ListForLoan)
	api.DELETE("/loans/:loan_id/guarantors/:guarantor_id", h.Guarantors.Remove)
	api.POST("/guarantor/accept", h.Guarantors.Accept)
	api.POST("/guarantor/decline", h.Guarantors.Decline)
	api.GET("/guarantor/requests", h.Guarantors.MyPendingRequests)
	api.GET("/guarantor/obligations", h.Guarantors.MyObligations)
	api.POST("/guarantors/:guarantor_id/verify", h.Guarantors.Verify)

	// qr token protocol
	api.POST("/loans/:loan_id/qr", h.QR.Generate)
	api.GET("/loans/:loan_id/qr", h.QR.ListForLoan)
	api.POST("/qr/validate", h.QR.Validate)
	api.POST("/qr/revoke", h.QR.Revoke)
	api.GET("/qr/:token/status", h.QR.GetStatus)
	api.POST("/qr/cleanup-expired", h.QR.CleanupExpired)

	// loan product catalog
	api.GET("/loan-types", h.LoanTypes.List)
	api.GET("/loan-types/:id", h.LoanTypes.Get)
	api.POST("/loan-types", h.LoanTypes.Create)
	api.PUT("/loan-types/:id", h.LoanTypes.Update)
	api.DELETE("/loan-types/:id", h.LoanTypes.Retire)

	// feature flags
	api.GET("/features", h.Features.ListEnabled)
	api.GET("/features/:slug", h.Features.GetStatus)
	api.PUT("/features/:slug", h.Features.SetEnabled)
}
