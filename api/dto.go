/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

WIRE FORMATS:
  Dates are ISO calendar dates (YYYY-MM-DD). Monetary amounts are decimal
  strings with 3 fractional digits (the domain currency uses 3-decimal
  minor units).

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/rental-engine/rental"
	"github.com/warp/rental-engine/report"
)

// =============================================================================
// PRODUCTS
// =============================================================================

type ProductDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	RentalPrice string `json:"rental_price"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	RentalPrice string `json:"rental_price"`
}

func toProductDTO(p rental.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Type:        string(p.Type),
		RentalPrice: p.RentalPrice.String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// RENTERS
// =============================================================================

type RenterDTO struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
	IDNumber  string `json:"id_number,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type RenterRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	IDNumber string `json:"id_number"`
}

func toRenterDTO(r rental.Renter) RenterDTO {
	return RenterDTO{
		ID:        r.ID,
		FullName:  r.FullName,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		IDNumber:  r.IDNumber,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// RENTALS
// =============================================================================

type RentalDTO struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	RenterID      int64  `json:"renter_id"`
	Cadence       string `json:"cadence"`
	UnitPrice     string `json:"unit_price"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	ProductName   string `json:"product_name,omitempty"`
	ProductType   string `json:"product_type,omitempty"`
	RenterName    string `json:"renter_name,omitempty"`
	RenterPhone   string `json:"renter_phone,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

type CreateRentalRequest struct {
	ProductID int64  `json:"product_id"`
	RenterID  int64  `json:"renter_id"`
	Cadence   string `json:"cadence"`
	UnitPrice string `json:"unit_price"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"` // empty means ongoing
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func toRentalDTO(r rental.Rental) RentalDTO {
	dto := RentalDTO{
		ID:            r.ID,
		ProductID:     r.ProductID,
		RenterID:      r.RenterID,
		Cadence:       string(r.Cadence),
		UnitPrice:     r.UnitPrice.String(),
		StartDate:     r.StartDate.String(),
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.EndDate != nil {
		dto.EndDate = r.EndDate.String()
	}
	return dto
}

func toRentalDetailDTO(d rental.RentalDetail) RentalDTO {
	dto := toRentalDTO(d.Rental)
	dto.ProductName = d.ProductName
	dto.ProductType = string(d.ProductType)
	dto.RenterName = d.RenterName
	dto.RenterPhone = d.RenterPhone
	return dto
}

// =============================================================================
// OBLIGATIONS
// =============================================================================

type ObligationDTO struct {
	ID          int64  `json:"id"`
	RentalID    int64  `json:"rental_id"`
	PeriodLabel string `json:"period_label"`
	DueDate     string `json:"due_date"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	RenterName  string `json:"renter_name,omitempty"`
	RenterPhone string `json:"renter_phone,omitempty"`
}

func toObligationDTO(ob rental.Obligation) ObligationDTO {
	return ObligationDTO{
		ID:          ob.ID,
		RentalID:    ob.RentalID,
		PeriodLabel: ob.PeriodLabel,
		DueDate:     ob.DueDate.String(),
		Amount:      ob.Amount.String(),
		Status:      string(ob.Status),
		Note:        ob.Note,
	}
}

func toObligationDetailDTO(d rental.ObligationDetail) ObligationDTO {
	dto := toObligationDTO(d.Obligation)
	dto.ProductName = d.ProductName
	dto.RenterName = d.RenterName
	dto.RenterPhone = d.RenterPhone
	return dto
}

// =============================================================================
// REPORTS
// =============================================================================

type FinancialSummaryDTO struct {
	TotalToPay    string `json:"total_to_pay"`
	TotalReceived string `json:"total_received"`
	StillOwed     string `json:"still_owed"`
}

func toSummaryDTO(s rental.FinancialSummary) FinancialSummaryDTO {
	return FinancialSummaryDTO{
		TotalToPay:    s.TotalToPay.String(),
		TotalReceived: s.TotalReceived.String(),
		StillOwed:     s.StillOwed.String(),
	}
}

type TenantTotalsDTO struct {
	RenterID      int64  `json:"renter_id"`
	RenterName    string `json:"renter_name"`
	RenterPhone   string `json:"renter_phone,omitempty"`
	TotalRentals  int    `json:"total_rentals"`
	PaidRentals   int    `json:"paid_rentals"`
	UnpaidRentals int    `json:"unpaid_rentals"`
	TotalReceived string `json:"total_received"`
	TotalOwed     string `json:"total_owed"`
	TotalAmount   string `json:"total_amount"`
}

func toTenantTotalsDTO(t report.TenantTotals) TenantTotalsDTO {
	return TenantTotalsDTO{
		RenterID:      t.RenterID,
		RenterName:    t.RenterName,
		RenterPhone:   t.RenterPhone,
		TotalRentals:  t.TotalRentals,
		PaidRentals:   t.PaidRentals,
		UnpaidRentals: t.UnpaidRentals,
		TotalReceived: t.TotalReceived.String(),
		TotalOwed:     t.TotalOwed.String(),
		TotalAmount:   t.TotalAmount.String(),
	}
}

type RentalIncomeDTO struct {
	Paid     string `json:"paid"`
	Expected string `json:"expected"`
}

type DashboardDTO struct {
	TotalProducts     int    `json:"total_products"`
	TotalRenters      int    `json:"total_renters"`
	ActiveRentals     int    `json:"active_rentals"`
	PaidRentals       int    `json:"paid_rentals"`
	UnpaidRentals     int    `json:"unpaid_rentals"`
	UnpaidObligations int    `json:"unpaid_obligations"`
	TotalIncome       string `json:"total_income"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
