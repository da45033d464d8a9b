package invoices

import (
	"testing"

	"github.com/digifund/digifund-backend/pkg/enums"
)

func TestFoldStatus(t *testing.T) {
	cases := []struct {
		name     string
		billFrom enums.BillFromStatus
		billTo   enums.BillToStatus
		prior    enums.InvoiceStatus
		want     enums.InvoiceStatus
	}{
		{"untouched stays prior", enums.BillFromStatusWaiting, enums.BillToStatusPending, enums.InvoiceStatusPending, enums.InvoiceStatusPending},
		{"receiver approves", enums.BillFromStatusWaiting, enums.BillToStatusApproved, enums.InvoiceStatusPending, enums.InvoiceStatusApproved},
		{"receiver declines", enums.BillFromStatusWaiting, enums.BillToStatusDeclined, enums.InvoiceStatusPending, enums.InvoiceStatusDeclined},
		{"paid beats approved", enums.BillFromStatusPaid, enums.BillToStatusApproved, enums.InvoiceStatusApproved, enums.InvoiceStatusPaid},
		{"paid beats declined", enums.BillFromStatusPaid, enums.BillToStatusDeclined, enums.InvoiceStatusDeclined, enums.InvoiceStatusPaid},
		{"paid with receiver untouched", enums.BillFromStatusPaid, enums.BillToStatusPending, enums.InvoiceStatusPending, enums.InvoiceStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FoldStatus(tc.billFrom, tc.billTo, tc.prior); got != tc.want {
				t.Fatalf("FoldStatus(%s, %s, %s) = %s, want %s", tc.billFrom, tc.billTo, tc.prior, got, tc.want)
			}
		})
	}
}
