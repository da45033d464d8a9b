package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

const testOwner = "BIZ-11111111"

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  inventory_id TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL,
  price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (owner_id, sku)
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func upsertFixture(t *testing.T, svc Service, sku string, qty int, unitPrice string) *ItemDTO {
	t.Helper()
	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	item, err := svc.Upsert(context.Background(), testOwner, UpsertItemRequest{
		SKU:       sku,
		Name:      "Widget " + sku,
		Quantity:  qty,
		UnitPrice: price,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return item
}

func TestUpsertCreatesWithDerivedPrice(t *testing.T) {
	svc, _ := newTestService(t)

	item := upsertFixture(t, svc, "SKU-1", 4, "2.50")

	if !strings.HasPrefix(item.InventoryID, "ITM-") || len(item.InventoryID) != len("ITM-")+8 {
		t.Fatalf("unexpected inventory id %q", item.InventoryID)
	}
	if got := item.Price.String(); got != "10" && got != "10.00" {
		t.Fatalf("expected derived price 10, got %s", got)
	}
}

func TestUpsertSameSKUUpdatesInPlace(t *testing.T) {
	svc, _ := newTestService(t)

	first := upsertFixture(t, svc, "SKU-1", 4, "2.50")
	second := upsertFixture(t, svc, "SKU-1", 7, "3.00")

	if second.InventoryID != first.InventoryID {
		t.Fatalf("expected stable inventory id, got %s then %s", first.InventoryID, second.InventoryID)
	}
	if second.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", second.Quantity)
	}
	if got := second.Price.String(); got != "21" && got != "21.00" {
		t.Fatalf("expected derived price 21, got %s", got)
	}

	page, err := svc.List(context.Background(), testOwner, "", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page.Total != 1 {
		t.Fatalf("expected a single row after upsert, got %d", page.Page.Total)
	}
}

func TestDecreaseStockHappyPath(t *testing.T) {
	svc, _ := newTestService(t)
	item := upsertFixture(t, svc, "SKU-1", 10, "1.00")

	updated, err := svc.DecreaseStock(context.Background(), testOwner, item.InventoryID, 4)
	if err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}
	if updated.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", updated.Quantity)
	}
	if got := updated.Price.String(); got != "6" && got != "6.00" {
		t.Fatalf("expected recomputed price 6, got %s", got)
	}
}

func TestDecreaseStockInsufficient(t *testing.T) {
	svc, _ := newTestService(t)
	item := upsertFixture(t, svc, "SKU-1", 3, "1.00")

	_, err := svc.DecreaseStock(context.Background(), testOwner, item.InventoryID, 5)
	assertCode(t, err, pkgerrors.CodeInsufficientStock)

	// quantity must be untouched after the failed decrement
	after, err := svc.Get(context.Background(), testOwner, item.InventoryID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Quantity != 3 {
		t.Fatalf("expected quantity unchanged at 3, got %d", after.Quantity)
	}
}

func TestDecreaseStockExactQuantityDrainsToZero(t *testing.T) {
	svc, _ := newTestService(t)
	item := upsertFixture(t, svc, "SKU-1", 3, "2.00")

	updated, err := svc.DecreaseStock(context.Background(), testOwner, item.InventoryID, 3)
	if err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", updated.Quantity)
	}
	if !updated.Price.IsZero() {
		t.Fatalf("expected price 0, got %s", updated.Price)
	}
}

func TestDecreaseStockUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.DecreaseStock(context.Background(), testOwner, "ITM-missing1", 1)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDecreaseStockOtherOwnerLooksMissing(t *testing.T) {
	svc, repo := newTestService(t)

	other := &models.InventoryItem{
		OwnerID:     "BIZ-22222222",
		InventoryID: "ITM-aabbccdd",
		SKU:         "SKU-X",
		Name:        "Other",
		Quantity:    10,
		UnitPrice:   decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(10),
	}
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.DecreaseStock(context.Background(), testOwner, other.InventoryID, 1)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetDistinguishesMissingFromForeign(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Get(context.Background(), testOwner, "ITM-missing1")
	assertCode(t, err, pkgerrors.CodeNotFound)

	foreign := &models.InventoryItem{
		OwnerID:     "BIZ-22222222",
		InventoryID: "ITM-aabbccdd",
		SKU:         "SKU-X",
		Name:        "Other",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(1),
	}
	if err := repo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.Get(context.Background(), testOwner, foreign.InventoryID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateRederivesPrice(t *testing.T) {
	svc, _ := newTestService(t)
	item := upsertFixture(t, svc, "SKU-1", 4, "2.50")

	qty := 6
	unitPrice := decimal.RequireFromString("3.00")
	updated, err := svc.Update(context.Background(), testOwner, item.InventoryID, UpdateItemRequest{
		Quantity:  &qty,
		UnitPrice: &unitPrice,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.SKU != "SKU-1" || updated.InventoryID != item.InventoryID {
		t.Fatalf("expected sku and inventory id immutable, got %+v", updated)
	}
	if got := updated.Price.String(); got != "18" && got != "18.00" {
		t.Fatalf("expected re-derived price 18, got %s", got)
	}

	empty := " "
	_, err = svc.Update(context.Background(), testOwner, item.InventoryID, UpdateItemRequest{Name: &empty})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Update(context.Background(), "BIZ-22222222", item.InventoryID, UpdateItemRequest{Quantity: &qty})
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Update(context.Background(), testOwner, "ITM-missing1", UpdateItemRequest{Quantity: &qty})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService(t)
	item := upsertFixture(t, svc, "SKU-1", 1, "1.00")

	if err := svc.Remove(context.Background(), testOwner, item.InventoryID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, err := svc.Get(context.Background(), testOwner, item.InventoryID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	err = svc.Remove(context.Background(), testOwner, item.InventoryID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestListPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 5; i++ {
		upsertFixture(t, svc, fmt.Sprintf("SKU-%d", i), i+1, "1.00")
	}

	page, err := svc.List(context.Background(), testOwner, "", 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.Page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Page.Total)
	}
	if page.Page.Next == "" {
		t.Fatal("expected next cursor")
	}

	rest, err := svc.List(context.Background(), testOwner, page.Page.Next, 3)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(rest.Items) != 2 {
		t.Fatalf("expected 2 items on final page, got %d", len(rest.Items))
	}
	if rest.Page.Next != "" {
		t.Fatalf("expected no further cursor, got %q", rest.Page.Next)
	}
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []UpsertItemRequest{
		{SKU: "", Name: "x", Quantity: 1},
		{SKU: "S", Name: "", Quantity: 1},
		{SKU: "S", Name: "x", Quantity: -1},
		{SKU: "S", Name: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
	}
	for i, req := range cases {
		_, err := svc.Upsert(context.Background(), testOwner, req)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		assertCode(t, err, pkgerrors.CodeValidation)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}
