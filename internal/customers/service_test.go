package customers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

const (
	testOwner  = "BIZ-11111111"
	otherOwner = "BIZ-22222222"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func createFixture(t *testing.T, svc Service, owner, name string) *CustomerDTO {
	t.Helper()
	email := strings.ToLower(name) + "@example.test"
	customer, err := svc.Create(context.Background(), owner, CreateCustomerRequest{
		Name:  name,
		Email: &email,
		Tags:  []string{"wholesale", "net-30"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return customer
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)
	created := createFixture(t, svc, testOwner, "Acme")

	got, err := svc.Get(context.Background(), testOwner, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Acme" {
		t.Fatalf("expected name Acme, got %q", got.Name)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "wholesale" {
		t.Fatalf("expected tags to round-trip, got %v", got.Tags)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), testOwner, CreateCustomerRequest{Name: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestGetDistinguishesMissingFromForeign(t *testing.T) {
	svc := newTestService(t)
	created := createFixture(t, svc, testOwner, "Acme")

	_, err := svc.Get(context.Background(), testOwner, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Get(context.Background(), otherOwner, created.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t)
	created := createFixture(t, svc, testOwner, "Acme")

	phone := "+15550100"
	tags := []string{"retail"}
	updated, err := svc.Update(context.Background(), testOwner, created.ID, UpdateCustomerRequest{
		Phone: &phone,
		Tags:  &tags,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Acme" {
		t.Fatalf("expected name untouched, got %q", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected phone %s, got %v", phone, updated.Phone)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "retail" {
		t.Fatalf("expected tags replaced, got %v", updated.Tags)
	}

	empty := " "
	_, err = svc.Update(context.Background(), testOwner, created.ID, UpdateCustomerRequest{Name: &empty})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateForeignRecordIsForbidden(t *testing.T) {
	svc := newTestService(t)
	created := createFixture(t, svc, testOwner, "Acme")

	name := "Hijacked"
	_, err := svc.Update(context.Background(), otherOwner, created.ID, UpdateCustomerRequest{Name: &name})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestRemove(t *testing.T) {
	svc := newTestService(t)
	created := createFixture(t, svc, testOwner, "Acme")

	if err := svc.Remove(context.Background(), testOwner, created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	err := svc.Remove(context.Background(), testOwner, created.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	second := createFixture(t, svc, testOwner, "Globex")
	err = svc.Remove(context.Background(), otherOwner, second.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestListIsOwnerScopedAndPaginated(t *testing.T) {
	svc := newTestService(t)
	for _, name := range []string{"Acme", "Globex", "Initech"} {
		createFixture(t, svc, testOwner, name)
	}
	createFixture(t, svc, otherOwner, "Umbrella")

	page, err := svc.List(context.Background(), testOwner, "", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Customers) != 2 || page.Page.Total != 3 || page.Page.Next == "" {
		t.Fatalf("unexpected first page: %d rows, total %d, next %q", len(page.Customers), page.Page.Total, page.Page.Next)
	}

	rest, err := svc.List(context.Background(), testOwner, page.Page.Next, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(rest.Customers) != 1 || rest.Page.Next != "" {
		t.Fatalf("unexpected second page: %d rows, next %q", len(rest.Customers), rest.Page.Next)
	}
}
