package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/internal/inventory"
	"github.com/digifund/digifund-backend/pkg/db"
	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
	"github.com/digifund/digifund-backend/pkg/logger"
	"github.com/digifund/digifund-backend/pkg/pubsub"
)

const (
	// TopicInvoiceCreated and TopicInvoiceStatusChanged are suffixed onto the
	// tenant's public id, e.g. "BIZ-1a2b3c4d.invoice.created".
	TopicInvoiceCreated       = "invoice.created"
	TopicInvoiceStatusChanged = "invoice.status_changed"

	createRetries = 3
)

// Service exposes the invoice lifecycle.
type Service interface {
	Create(ctx context.Context, callerID string, req CreateInvoiceRequest) (*InvoiceDTO, error)
	UpdateStatus(ctx context.Context, callerID, invoiceNumber string, req UpdateStatusRequest) (*InvoiceDTO, error)
	Update(ctx context.Context, callerID, invoiceNumber string, req UpdateInvoiceRequest) (*InvoiceDTO, error)
	Remove(ctx context.Context, callerID, invoiceNumber string) error
	Get(ctx context.Context, callerID, invoiceNumber string) (*InvoiceDTO, error)
	List(ctx context.Context, callerID string, cursor string, limit int) (InvoicesPageDTO, error)
}

type counterpartyResolver interface {
	FindByPublicID(ctx context.Context, publicID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
}

// ServiceParams groups dependencies for the invoice service.
type ServiceParams struct {
	DB            *db.Client
	InvoiceRepo   *Repository
	InventoryRepo *inventory.Repository
	Users         counterpartyResolver
	Publisher     pubsub.Publisher
	Logger        *logger.Logger
}

type service struct {
	db            *db.Client
	invoiceRepo   *Repository
	inventoryRepo *inventory.Repository
	users         counterpartyResolver
	publisher     pubsub.Publisher
	logg          *logger.Logger
}

// NewService builds an invoice service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.InvoiceRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice repo is required")
	}
	if params.InventoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publisher is required")
	}
	return &service{
		db:            params.DB,
		invoiceRepo:   params.InvoiceRepo,
		inventoryRepo: params.InventoryRepo,
		users:         params.Users,
		publisher:     params.Publisher,
		logg:          params.Logger,
	}, nil
}

// Create bills a counterparty. Stock decrements and the header insert share
// one transaction, so nothing is deducted when any line fails.
func (s *service) Create(ctx context.Context, callerID string, req CreateInvoiceRequest) (*InvoiceDTO, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	sender, err := s.users.FindByPublicID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown caller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sender")
	}

	receiver, err := s.resolveCounterparty(ctx, req)
	if err != nil {
		return nil, err
	}
	if receiver.PublicID == sender.PublicID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot bill yourself")
	}

	var created *models.Invoice
	for attempt := 0; attempt < createRetries; attempt++ {
		created = nil
		err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
			invoiceRepo := s.invoiceRepo.WithTx(tx)
			inventoryRepo := s.inventoryRepo.WithTx(tx)

			lines, total, err := s.buildLines(ctx, inventoryRepo, sender.PublicID, req.Items)
			if err != nil {
				return err
			}

			seq, err := invoiceRepo.NextSequence(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "next invoice number")
			}

			invoice := &models.Invoice{
				InvoiceNumber:  fmt.Sprintf("INV-%06d", seq),
				InvoiceType:    enums.InvoiceTypeIncome,
				BillFrom:       sender.PublicID,
				BillTo:         receiver.PublicID,
				BillFromName:   sender.BusinessName,
				BillFromEmail:  sender.Email,
				BillToName:     receiver.BusinessName,
				BillToEmail:    receiver.Email,
				TotalAmount:    total,
				BillFromStatus: enums.BillFromStatusWaiting,
				BillToStatus:   enums.BillToStatusPending,
				Status:         enums.InvoiceStatusPending,
				DueDate:        req.DueDate,
				Items:          lines,
			}
			if err := invoiceRepo.Create(ctx, invoice); err != nil {
				return err
			}
			created = invoice
			return nil
		})
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err) {
			continue
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invoice")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "invoice number contention")
	}

	event := InvoiceCreatedEvent{
		InvoiceNumber: created.InvoiceNumber,
		BillFrom:      created.BillFrom,
		BillTo:        created.BillTo,
		TotalAmount:   created.TotalAmount,
	}
	s.publishToParties(ctx, TopicInvoiceCreated, created.BillFrom, created.BillTo, event)

	return fromModel(created), nil
}

// UpdateStatus moves the caller's own track and re-folds the overall status.
func (s *service) UpdateStatus(ctx context.Context, callerID, invoiceNumber string, req UpdateStatusRequest) (*InvoiceDTO, error) {
	invoice, err := s.loadForParty(ctx, callerID, invoiceNumber)
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(strings.TrimSpace(req.Status))
	billFrom := invoice.BillFromStatus
	billTo := invoice.BillToStatus

	switch callerID {
	case invoice.BillFrom:
		if target != string(enums.BillFromStatusPaid) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("sender may only mark an invoice paid, not %q", target))
		}
		billFrom = enums.BillFromStatusPaid
	case invoice.BillTo:
		switch target {
		case string(enums.BillToStatusApproved):
			billTo = enums.BillToStatusApproved
		case string(enums.BillToStatusDeclined):
			billTo = enums.BillToStatusDeclined
		default:
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("receiver may only approve or decline, not %q", target))
		}
	}

	overall := FoldStatus(billFrom, billTo, invoice.Status)
	if err := s.invoiceRepo.UpdateStatuses(ctx, invoiceNumber, billFrom, billTo, overall); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update statuses")
	}

	invoice.BillFromStatus = billFrom
	invoice.BillToStatus = billTo
	invoice.Status = overall

	event := InvoiceStatusChangedEvent{
		InvoiceNumber: invoice.InvoiceNumber,
		BillFrom:      invoice.BillFrom,
		BillTo:        invoice.BillTo,
		ChangedBy:     callerID,
		Status:        overall,
	}
	s.publishToParties(ctx, TopicInvoiceStatusChanged, invoice.BillFrom, invoice.BillTo, event)

	return fromModel(invoice), nil
}

// Update replaces the line set. The stock delta per inventory id (new minus
// old quantity) is applied in the same transaction, failing with
// INSUFFICIENT_STOCK when an increase exceeds what is on hand.
func (s *service) Update(ctx context.Context, callerID, invoiceNumber string, req UpdateInvoiceRequest) (*InvoiceDTO, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	invoice, err := s.loadForParty(ctx, callerID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if callerID != invoice.BillFrom {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the sender may edit an invoice")
	}
	if invoice.Status == enums.InvoiceStatusApproved || invoice.Status == enums.InvoiceStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("invoice in status %s cannot be edited", invoice.Status))
	}

	oldQty := map[string]int{}
	for _, line := range invoice.Items {
		oldQty[line.InventoryID] += line.Qty
	}
	newQty := map[string]int{}
	for _, item := range req.Items {
		newQty[item.InventoryID] += item.Qty
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		invoiceRepo := s.invoiceRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		// return stock freed by shrunk/removed lines first
		for inventoryID, old := range oldQty {
			delta := newQty[inventoryID] - old
			if delta < 0 {
				if _, err := inventoryRepo.IncrementStock(ctx, callerID, inventoryID, -delta); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
				}
			}
		}
		for inventoryID, wanted := range newQty {
			delta := wanted - oldQty[inventoryID]
			if delta > 0 {
				if err := decrementOrFail(ctx, inventoryRepo, callerID, inventoryID, delta); err != nil {
					return err
				}
			}
		}

		lines, total, err := s.assembleLines(ctx, inventoryRepo, callerID, req.Items)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = invoice.ID
		}
		if err := invoiceRepo.ReplaceLines(ctx, invoice, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace lines")
		}

		invoice.TotalAmount = total
		if req.DueDate != nil {
			invoice.DueDate = req.DueDate
		}
		if err := invoiceRepo.SaveHeader(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save header")
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update invoice")
	}

	reloaded, err := s.invoiceRepo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload invoice")
	}
	return fromModel(reloaded), nil
}

// Remove deletes a pending or declined invoice. Approved and paid invoices
// are immutable history.
func (s *service) Remove(ctx context.Context, callerID, invoiceNumber string) error {
	invoice, err := s.loadForParty(ctx, callerID, invoiceNumber)
	if err != nil {
		return err
	}
	if callerID != invoice.BillFrom {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the sender may delete an invoice")
	}
	if invoice.Status == enums.InvoiceStatusApproved || invoice.Status == enums.InvoiceStatusPaid {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("invoice in status %s cannot be deleted", invoice.Status))
	}

	restock := map[string]int{}
	for _, line := range invoice.Items {
		restock[line.InventoryID] += line.Qty
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		invoiceRepo := s.invoiceRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		// the stock deducted at create goes back to the sender
		for inventoryID, qty := range restock {
			if _, err := inventoryRepo.IncrementStock(ctx, callerID, inventoryID, qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}
		if err := invoiceRepo.DeleteLines(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete lines")
		}
		if _, err := invoiceRepo.Delete(ctx, invoiceNumber); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete invoice")
		}
		return nil
	})
}

// Get returns one invoice to either party.
func (s *service) Get(ctx context.Context, callerID, invoiceNumber string) (*InvoiceDTO, error) {
	invoice, err := s.loadForParty(ctx, callerID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return fromModel(invoice), nil
}

// List returns the caller's sent and received invoices.
func (s *service) List(ctx context.Context, callerID string, cursor string, limit int) (InvoicesPageDTO, error) {
	rows, next, err := s.invoiceRepo.ListForParty(ctx, callerID, cursor, limit)
	if err != nil {
		return InvoicesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invoices")
	}
	total, err := s.invoiceRepo.CountForParty(ctx, callerID)
	if err != nil {
		return InvoicesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count invoices")
	}

	invoices := make([]InvoiceDTO, 0, len(rows))
	for i := range rows {
		invoices = append(invoices, *fromModel(&rows[i]))
	}
	return InvoicesPageDTO{
		Invoices: invoices,
		Page:     PaginationMeta{Total: int(total), Next: next},
	}, nil
}

func (s *service) loadForParty(ctx context.Context, callerID, invoiceNumber string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	if callerID != invoice.BillFrom && callerID != invoice.BillTo {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller is not a party to this invoice")
	}
	return invoice, nil
}

func (s *service) resolveCounterparty(ctx context.Context, req CreateInvoiceRequest) (*models.User, error) {
	publicID := strings.TrimSpace(req.BillToPublicID)
	email := strings.TrimSpace(req.BillToEmail)
	phone := strings.TrimSpace(req.BillToPhone)

	provided := 0
	for _, v := range []string{publicID, email, phone} {
		if v != "" {
			provided++
		}
	}
	if provided != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"exactly one of bill_to_public_id, bill_to_email, bill_to_phone is required")
	}

	var (
		user *models.User
		err  error
	)
	switch {
	case publicID != "":
		user, err = s.users.FindByPublicID(ctx, publicID)
	case email != "":
		user, err = s.users.FindByEmail(ctx, email)
	default:
		user, err = s.users.FindByPhone(ctx, phone)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "counterparty not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve counterparty")
	}
	return user, nil
}

// buildLines assembles line rows, accumulates the total, and decrements stock
// per line under the sender's scope.
func (s *service) buildLines(ctx context.Context, inventoryRepo *inventory.Repository, ownerID string, items []LineItemInput) ([]models.InvoiceLineItem, decimal.Decimal, error) {
	lines, total, err := s.assembleLines(ctx, inventoryRepo, ownerID, items)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for _, item := range items {
		if err := decrementOrFail(ctx, inventoryRepo, ownerID, item.InventoryID, item.Qty); err != nil {
			return nil, decimal.Zero, err
		}
	}
	return lines, total, nil
}

func (s *service) assembleLines(ctx context.Context, inventoryRepo *inventory.Repository, ownerID string, items []LineItemInput) ([]models.InvoiceLineItem, decimal.Decimal, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.InventoryID)
	}
	stock, err := inventoryRepo.FindManyByInventoryIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
	}

	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	lines := make([]models.InvoiceLineItem, 0, len(items))
	for _, item := range items {
		if item.Qty <= 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if item.Rate.IsNegative() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "line rate cannot be negative")
		}
		if item.DiscountPercentage.IsNegative() || item.DiscountPercentage.GreaterThan(hundred) {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
		}
		record, ok := stock[item.InventoryID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("inventory item %s not found", item.InventoryID))
		}

		lineTotal := item.Rate.
			Mul(decimal.NewFromInt(int64(item.Qty))).
			Mul(hundred.Sub(item.DiscountPercentage)).
			Div(hundred)
		total = total.Add(lineTotal)

		lines = append(lines, models.InvoiceLineItem{
			InventoryID:        item.InventoryID,
			Name:               record.Name,
			Qty:                item.Qty,
			Rate:               item.Rate,
			DiscountPercentage: item.DiscountPercentage,
			TotalPrice:         lineTotal,
		})
	}
	return lines, total, nil
}

func decrementOrFail(ctx context.Context, inventoryRepo *inventory.Repository, ownerID, inventoryID string, qty int) error {
	affected, err := inventoryRepo.DecrementStock(ctx, ownerID, inventoryID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
	}
	if affected == 0 {
		item, lookupErr := inventoryRepo.FindByInventoryID(ctx, inventoryID)
		if lookupErr != nil || item.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("inventory item %s not found", inventoryID))
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %s: requested %d, available %d", inventoryID, qty, item.Quantity))
	}
	return nil
}

func (s *service) publishToParties(ctx context.Context, event, billFrom, billTo string, payload any) {
	for _, party := range []string{billFrom, billTo} {
		topic := fmt.Sprintf("%s.%s", party, event)
		if err := s.publisher.Publish(ctx, topic, payload); err != nil && s.logg != nil {
			s.logg.Error(ctx, "publish invoice event", err)
		}
	}
}
