package enums

import "fmt"

// InvoiceStatus is the folded overall status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusApproved InvoiceStatus = "approved"
	InvoiceStatusDeclined InvoiceStatus = "declined"
	InvoiceStatusPaid     InvoiceStatus = "paid"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusApproved,
	InvoiceStatusDeclined,
	InvoiceStatusPaid,
}

// String implements fmt.Stringer.
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InvoiceStatus.
func (s InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInvoiceStatus converts raw input into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}

// BillFromStatus tracks the sender-side status of an invoice.
type BillFromStatus string

const (
	BillFromStatusWaiting BillFromStatus = "waiting"
	BillFromStatusPaid    BillFromStatus = "paid"
)

// String implements fmt.Stringer.
func (s BillFromStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BillFromStatus.
func (s BillFromStatus) IsValid() bool {
	return s == BillFromStatusWaiting || s == BillFromStatusPaid
}

// BillToStatus tracks the receiver-side status of an invoice.
type BillToStatus string

const (
	BillToStatusPending  BillToStatus = "pending"
	BillToStatusApproved BillToStatus = "approved"
	BillToStatusDeclined BillToStatus = "declined"
)

// String implements fmt.Stringer.
func (s BillToStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BillToStatus.
func (s BillToStatus) IsValid() bool {
	return s == BillToStatusPending || s == BillToStatusApproved || s == BillToStatusDeclined
}
