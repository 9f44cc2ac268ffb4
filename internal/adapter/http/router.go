package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Health    *Handler
	Loans     *LoanHandler
	Portfolio *PortfolioHandler

	// Auth resolves the caller; Idempotency guards submission.
	Auth        echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
	Metrics     http.Handler
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}
	e.GET("/loan-types", r.Loans.LoanTypes)
	e.POST("/loans/calculate", r.Loans.Calculate)

	auth := r.Auth
	e.GET("/loans", r.Loans.ListLoans, auth)
	e.GET("/loans/:loan_id", r.Loans.GetLoan, auth)
	e.GET("/loans/:loan_id/history", r.Loans.History, auth)
	e.GET("/applicants/:applicant_id/loans", r.Loans.ListApplicantLoans, auth)
	e.POST("/loans", r.Loans.SubmitLoan, auth, r.Idempotency)
	e.PUT("/loans/:loan_id", r.Loans.UpdateLoan, auth)
	e.PATCH("/loans/:loan_id/status", r.Loans.ChangeStatus, auth)
	e.DELETE("/loans/:loan_id", r.Loans.DeleteLoan, auth)
	e.GET("/portfolio/stats", r.Portfolio.Stats, auth)
}
