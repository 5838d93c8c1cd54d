package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var userCols = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "phone", "role",
	"permissions", "status", "last_login", "created_at", "updated_at"}

// ─── Items ──────────────────────────────────────────────────────────────────

func TestItemRepo_Create_SKURepetidoEsErrDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO inventory").
		WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry 'SKU-1' for key 'inventory.sku'"})

	err := NewItemRepository(db).Create(context.Background(), &entity.Item{ID: "i1", SKU: "SKU-1", Price: decimal.NewFromInt(10)})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_GetByID_SinFilasDevuelveNil(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM inventory WHERE id = \?`).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	it, err := NewItemRepository(db).GetByID(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestItemRepo_Update_SinFilasEsNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE inventory SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewItemRepository(db).Update(context.Background(), &entity.Item{ID: "i1"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepo_UpdateQuantity_IDVaAlFinal(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE inventory SET quantity = \?, updated_at = \? WHERE id = \?`).
		WithArgs(7, at, "i1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewItemRepository(db).UpdateQuantity(context.Background(), "i1", 7, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─── Usuarios ───────────────────────────────────────────────────────────────

func TestUserRepo_List_CuentaYPagina(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \? AND \(username LIKE \? OR email LIKE \? OR first_name LIKE \? OR last_name LIKE \?\)`).
		WithArgs("cashier", "%ana%", "%ana%", "%ana%", "%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`FROM users WHERE .* ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs("cashier", "%ana%", "%ana%", "%ana%", "%ana%", 10, 20).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"u1", "ana", "ana@tienda.co", "hash", "Ana", "Gómez", "", entity.RoleCashier,
			[]byte(`{"sales.void":true}`), entity.StatusActive, nil, now, now,
		))

	users, total, err := NewUserRepository(db).List(context.Background(), repository.UserFilter{
		Role: entity.RoleCashier, Search: "ana", Page: repository.Page{Limit: 10, Offset: 20},
	})

	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].Username)
	assert.Nil(t, users[0].LastLogin)
	assert.True(t, users[0].Permissions[entity.PermSalesVoid])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_PermisosComoJSON(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "ana", "ana@tienda.co", "hash", "", "", "", entity.RoleCashier,
			`{}`, entity.StatusActive, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewUserRepository(db).Create(context.Background(), &entity.User{
		ID: "u1", Username: "ana", Email: "ana@tienda.co", PasswordHash: "hash",
		Role: entity.RoleCashier, Status: entity.StatusActive,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_DeleteExpired_DevuelveFilasBorradas(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM user_sessions WHERE expires_at < \?`).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionRepository(db).DeleteExpired(context.Background(), time.Now())

	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

// ─── Transacciones ──────────────────────────────────────────────────────────

// ─── Customers ──────────────────────────────────────────────────────────────

func TestCustomerRepo_AddLoyaltyPoints_UpdateRelativo(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET loyalty_points = loyalty_points + ?")).
		WithArgs(10, at, "c1", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewCustomerRepository(db).AddLoyaltyPoints(context.Background(), "c1", 10, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_AddLoyaltyPoints_SaldoInsuficienteONoExiste(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now()
	mock.ExpectExec("UPDATE customers SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("c1").WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	mock.ExpectExec("UPDATE customers SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("c2").WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))

	repo := NewCustomerRepository(db)
	assert.ErrorIs(t, repo.AddLoyaltyPoints(context.Background(), "c1", -500, at), domain.ErrInsufficientPoints)
	assert.ErrorIs(t, repo.AddLoyaltyPoints(context.Background(), "c2", -5, at), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RunTransfer_CommitCuandoNoHayError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inventory_transfers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewTxRunner(db).RunTransfer(context.Background(), func(_ repository.LocationStockRepository, tr repository.TransferRepository) error {
		return tr.Create(context.Background(), &entity.InventoryTransfer{ID: "t1", ItemID: "i1", Quantity: 2})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RunSale_RollbackSiElCallbackFalla(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("stock insuficiente")
	err := NewTxRunner(db).RunSale(context.Background(), func(billing.SaleTxRepos) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─── Catálogos y reportes ───────────────────────────────────────────────────

func TestSettingRepo_Upsert_UsaOnDuplicateKey(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (`key`, value, description, updated_at)")+".*ON DUPLICATE KEY UPDATE").
		WithArgs("store_name", `"Mi tienda"`, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewSettingRepository(db).Upsert(context.Background(), &entity.Setting{Key: "store_name", Value: []byte(`"Mi tienda"`)})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_SalesByPeriod_AgrupaPorMes(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("DATE_FORMAT(s.created_at, '%Y-%m')")).
		WithArgs(entity.SaleStatusCompleted, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"period", "sales", "gross", "tax", "discounts", "net"}).
			AddRow("2024-01", 2, "100.00", "19.00", "0.00", "119.00").
			AddRow("2024-02", 1, "50.00", "9.50", "5.00", "54.50"))

	rows, err := NewReportRepository(db).SalesByPeriod(context.Background(), from, to, true)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-02", rows[1].Period)
	assert.True(t, rows[1].Net.Equal(decimal.RequireFromString("54.50")))
}

func TestReportRepo_ProductSales_SinLimiteUsaMaximo(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM sales_items d`).
		WithArgs(entity.SaleStatusCompleted, sqlmock.AnyArg(), sqlmock.AnyArg(), int64(noLimit)).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "sku", "name", "quantity", "revenue", "cost"}).
			AddRow("i1", "SKU-1", "Café", "3", "30.00", "12.00"))

	rows, err := NewReportRepository(db).ProductSales(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), 0)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
