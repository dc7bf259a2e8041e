package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caludio70/boletosventa-sub000/internal/config"
)

func TestMailer_SinHost(t *testing.T) {
	m := NewMailer(&config.Config{SMTPPort: 587})
	assert.False(t, m.Configurado())
	assert.Error(t, m.EnviarDocumento("a@b.com", "x", "y", ""))
}

func TestMailer_AdjuntoInexistente(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 2525})
	err := m.EnviarDocumento("a@b.com", "x", "y", "/no/existe.pdf")
	assert.ErrorContains(t, err, "attach")
}
