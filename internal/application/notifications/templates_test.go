package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/application/notifications"
)

func TestRender_PlaceholderDesconocidoQuedaVacio(t *testing.T) {
	out := notifications.Render("Hola {{customer_name}}{{ no_existe }}!", map[string]string{"customer_name": "Ana"})
	assert.Equal(t, "Hola Ana!", out)
}

func TestPlaceholders_OrdenadosSinRepetir(t *testing.T) {
	got := notifications.Placeholders("{{total}} {{balance}} {{total}}")
	assert.Equal(t, []string{"balance", "total"}, got)
}

func TestTemplates_TodasDisponibles(t *testing.T) {
	uc := notifications.NewNotificationUseCase(nil, nil, nil, nil, nil, nil)
	names := make([]string, 0)
	for _, tpl := range uc.Templates() {
		names = append(names, tpl.Name)
		assert.NotEmpty(t, tpl.Placeholders, tpl.Name)
	}
	assert.Equal(t, []string{"loyalty_update", "order_ready", "payment_reminder", "promotion", "receipt"}, names)
}
