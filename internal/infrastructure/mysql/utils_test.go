package mysql

import (
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

func TestWhere_CadaPlaceholderConsumeSuArgumento(t *testing.T) {
	w := &where{}
	w.and("role = " + w.arg("cashier"))
	w.like("ana", "username", "email")
	page := w.page(repository.Page{Limit: 20, Offset: 40})

	assert.Equal(t, " WHERE role = ? AND (username LIKE ? OR email LIKE ?)", w.sql())
	assert.Equal(t, " LIMIT ? OFFSET ?", page)
	assert.Equal(t, []any{"cashier", "%ana%", "%ana%", 20, 40}, w.args)
}

func TestWhere_OffsetSinLimitAgregaLimiteMaximo(t *testing.T) {
	w := &where{}
	assert.Equal(t, " LIMIT ? OFFSET ?", w.page(repository.Page{Offset: 10}))
	assert.Equal(t, []any{int64(noLimit), 10}, w.args)
}

func TestWhere_SinFiltros(t *testing.T) {
	w := &where{}
	w.like("  ", "name")
	assert.Empty(t, w.sql())
	assert.Empty(t, w.page(repository.Page{}))
	assert.Empty(t, w.args)
}

func TestWriteErr_1062EsDuplicado(t *testing.T) {
	myErr := &driver.MySQLError{Number: 1062, Message: "Duplicate entry 'SKU-1' for key 'inventory.sku'"}
	err := writeErr("insert item", fmt.Errorf("exec: %w", myErr))

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "inventory.sku")
}

func TestWriteErr_OtrosCodigosSeEnvuelven(t *testing.T) {
	myErr := &driver.MySQLError{Number: 1452, Message: "foreign key"}
	err := writeErr("insert item", myErr)

	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, errors.As(err, new(*driver.MySQLError)))
	assert.NoError(t, writeErr("insert item", nil))
}

func TestLimitOrAll(t *testing.T) {
	assert.Equal(t, int64(noLimit), limitOrAll(0))
	assert.Equal(t, int64(5), limitOrAll(5))
}
