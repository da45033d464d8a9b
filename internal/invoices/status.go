package invoices

import "github.com/digifund/digifund-backend/pkg/enums"

// FoldStatus recomputes the overall invoice status from the two party tracks.
// Precedence: paid beats approved beats declined; otherwise the prior overall
// value stands.
func FoldStatus(billFrom enums.BillFromStatus, billTo enums.BillToStatus, prior enums.InvoiceStatus) enums.InvoiceStatus {
	switch {
	case billFrom == enums.BillFromStatusPaid:
		return enums.InvoiceStatusPaid
	case billTo == enums.BillToStatusApproved:
		return enums.InvoiceStatusApproved
	case billTo == enums.BillToStatusDeclined:
		return enums.InvoiceStatusDeclined
	default:
		return prior
	}
}
