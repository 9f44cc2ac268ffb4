package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-origination/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applicantReq struct {
	Name       string `json:"name" validate:"max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Credential string `json:"credential" validate:"max=72"`
}

type submitLoanReq struct {
	Applicant  applicantReq `json:"applicant"`
	LoanType   string       `json:"loan_type" validate:"omitempty,loantype"`
	Principal  float64      `json:"principal" validate:"gt=0,dec2"`
	TermMonths int          `json:"term_months" validate:"gte=1,lte=1200"`
	AnnualRate *float64     `json:"annual_rate" validate:"omitempty,gte=0,lte=999.99,dec2"`
}

type calculateReq struct {
	LoanType   string   `json:"loan_type" validate:"omitempty,loantype"`
	Principal  float64  `json:"principal" validate:"gt=0"`
	TermMonths int      `json:"term_months" validate:"gte=1,lte=1200"`
	AnnualRate *float64 `json:"annual_rate" validate:"omitempty,gte=0,lte=999.99"`
}

type updateLoanReq struct {
	Version     uint64  `json:"version" validate:"required"`
	ApplicantID string  `json:"applicant_id" validate:"omitempty,hex32"`
	Principal   float64 `json:"principal" validate:"gt=0,dec2"`
	TermMonths  int     `json:"term_months" validate:"gte=1,lte=1200"`
	AnnualRate  float64 `json:"annual_rate" validate:"gte=0,lte=999.99,dec2"`
	Status      string  `json:"status" validate:"omitempty,loanstatus"`
	Force       bool    `json:"force"`
}

type changeStatusReq struct {
	Status string `json:"status" validate:"required,loanstatus"`
	Force  bool   `json:"force"`
}

func (h *LoanHandler) SubmitLoan(c echo.Context) error {
	var req submitLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), loan.SubmitInput{
		Applicant:  loan.ApplicantInput(req.Applicant),
		LoanType:   req.LoanType,
		Principal:  req.Principal,
		TermMonths: req.TermMonths,
		AnnualRate: req.AnnualRate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Calculate(c echo.Context) error {
	var req calculateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	q, err := h.uc.Calculate(loan.CalculateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *LoanHandler) LoanTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Products())
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	list, err := h.uc.ListAll(c.Request().Context(), who)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) ListApplicantLoans(c echo.Context) error {
	list, err := h.uc.ListByApplicant(c.Request().Context(), c.Param("applicant_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) History(c echo.Context) error {
	list, err := h.uc.History(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	var req updateLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), who, loan.UpdateInput{
		LoanID:      c.Param("loan_id"),
		Version:     req.Version,
		ApplicantID: req.ApplicantID,
		Principal:   req.Principal,
		TermMonths:  req.TermMonths,
		AnnualRate:  req.AnnualRate,
		Status:      req.Status,
		Force:       req.Force,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ChangeStatus(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	var req changeStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.ChangeStatus(c.Request().Context(), who, c.Param("loan_id"), req.Status, req.Force)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), who, c.Param("loan_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
