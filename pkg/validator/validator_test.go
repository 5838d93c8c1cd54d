package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/pkg/validator"
)

type lineaPrueba struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type solicitudPrueba struct {
	Email  string          `json:"email" validate:"required,email"`
	Role   string          `json:"role" validate:"omitempty,oneof=admin manager cashier employee"`
	Amount decimal.Decimal `json:"amount" validate:"dgt0"`
	From   string          `json:"from_location_id" validate:"required"`
	To     string          `json:"to_location_id" validate:"required,nefield=From"`
	Items  []lineaPrueba   `json:"items" validate:"required,min=1,dive"`
}

func TestStruct_SinErrores(t *testing.T) {
	in := solicitudPrueba{
		Email:  "a@b.co",
		Role:   "cashier",
		Amount: decimal.NewFromInt(10),
		From:   "A",
		To:     "B",
		Items:  []lineaPrueba{{ItemID: "x", Quantity: 1}},
	}
	assert.Nil(t, validator.Struct(in))
}

func TestStruct_MensajesPorCampoConNombreJSON(t *testing.T) {
	in := solicitudPrueba{
		Email:  "no-es-email",
		Role:   "jefe",
		Amount: decimal.Zero,
		From:   "A",
		To:     "A",
		Items:  []lineaPrueba{{ItemID: "", Quantity: 0}},
	}
	fields := validator.Struct(in)

	assert.Equal(t, "debe ser un email válido", fields["email"])
	assert.Contains(t, fields["role"], "debe ser uno de")
	assert.Equal(t, "debe ser mayor que 0", fields["amount"])
	assert.Contains(t, fields, "to_location_id")
	assert.Equal(t, "es requerido", fields["items[0].item_id"])
	assert.Contains(t, fields, "items[0].quantity")
}

func TestStruct_ListaVacia(t *testing.T) {
	in := solicitudPrueba{Email: "a@b.co", Amount: decimal.NewFromInt(1), From: "A", To: "B"}
	fields := validator.Struct(in)
	assert.Contains(t, fields, "items")
}
