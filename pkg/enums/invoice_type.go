package enums

import "fmt"

// InvoiceType distinguishes the direction of an invoice from a tenant's perspective.
type InvoiceType string

const (
	InvoiceTypeIncome  InvoiceType = "income"
	InvoiceTypeExpense InvoiceType = "expense"
)

var validInvoiceTypes = []InvoiceType{
	InvoiceTypeIncome,
	InvoiceTypeExpense,
}

// String implements fmt.Stringer.
func (t InvoiceType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InvoiceType.
func (t InvoiceType) IsValid() bool {
	for _, candidate := range validInvoiceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInvoiceType converts raw input into an InvoiceType.
func ParseInvoiceType(value string) (InvoiceType, error) {
	for _, candidate := range validInvoiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice type %q", value)
}
