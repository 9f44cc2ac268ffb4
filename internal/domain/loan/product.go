package loan

import "github.com/shopspring/decimal"

// Product is a loan type offered to applicants, with the ranges a
// submission naming it must respect.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	MinAmount  decimal.Decimal `json:"min_amount"`
	MaxAmount  decimal.Decimal `json:"max_amount"`
	MinTerm    int             `json:"min_term"`
	MaxTerm    int             `json:"max_term"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
}

var catalog = []Product{
	{ID: "personal", Name: "Personal Loan", MinAmount: decimal.NewFromInt(1_000), MaxAmount: decimal.NewFromInt(50_000), MinTerm: 12, MaxTerm: 60, AnnualRate: decimal.RequireFromString("8.5")},
	{ID: "mortgage", Name: "Mortgage Loan", MinAmount: decimal.NewFromInt(50_000), MaxAmount: decimal.NewFromInt(500_000), MinTerm: 120, MaxTerm: 360, AnnualRate: decimal.RequireFromString("5.5")},
	{ID: "automotive", Name: "Automotive Loan", MinAmount: decimal.NewFromInt(5_000), MaxAmount: decimal.NewFromInt(100_000), MinTerm: 12, MaxTerm: 84, AnnualRate: decimal.RequireFromString("6.5")},
	{ID: "business", Name: "Business Loan", MinAmount: decimal.NewFromInt(10_000), MaxAmount: decimal.NewFromInt(200_000), MinTerm: 12, MaxTerm: 60, AnnualRate: decimal.RequireFromString("7.5")},
}

// Products returns a copy of the catalog.
func Products() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// ProductByID looks up a catalog entry.
func ProductByID(id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
