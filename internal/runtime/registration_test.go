package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistration_HappyPath(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	res, err := e.StepRegistration(ctx, "51999", domain.NewSession(), "registrar Bodega Doña Lucha")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingEmail, res.Session.State)
	require.NotNil(t, res.Session.Registration)
	assert.Equal(t, "Bodega Doña Lucha", res.Session.Registration.BusinessName)
	assert.Equal(t, []string{"Por favor, proporcione un correo electrónico para su registro:"}, res.Messages)

	res, err = e.StepRegistration(ctx, "51999", res.Session, "lucha@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.EffectRegister, res.Effect)
	assert.Equal(t, domain.NewSession(), res.Session)
	require.NotNil(t, res.Account)
	assert.Equal(t, domain.Account{
		Identity:     "51999",
		BusinessName: "Bodega Doña Lucha",
		Email:        "lucha@example.com",
		RegisteredAt: fixedNow,
	}, *res.Account)
}

func TestStepRegistration_Rejections(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	res, err := e.StepRegistration(ctx, "u", domain.NewSession(), "nueva venta")
	require.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.Contains(t, res.Messages[0], "Parece que no está registrado")

	res, err = e.StepRegistration(ctx, "u", domain.NewSession(), "REGISTRAR")
	require.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.Equal(t, []string{"Por favor, incluya el nombre de su negocio al registrar. Ejemplo: \"registrar MiNegocio\"."}, res.Messages)

	awaiting := domain.Session{
		State:        domain.StateAwaitingEmail,
		Registration: &domain.Registration{BusinessName: "Bodega"},
	}
	res, err = e.StepRegistration(ctx, "u", awaiting, "not-an-email")
	require.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.Equal(t, awaiting, res.Session)
	assert.Equal(t, []string{"Por favor, proporcione un correo electrónico válido."}, res.Messages)
}

func TestStepRegistration_LostRegistration(t *testing.T) {
	e := newTestEngine()

	res, err := e.StepRegistration(context.Background(), "u", domain.Session{State: domain.StateAwaitingEmail}, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, domain.EffectDiscard, res.Effect)
	assert.Equal(t, domain.NewSession(), res.Session)
	assert.Equal(t, []string{"Ocurrió un error. Por favor, intente registrarse nuevamente."}, res.Messages)
}

func TestStepRegistration_RevokedMidSale(t *testing.T) {
	e := newTestEngine()
	s := domain.Session{State: domain.StateAwaitingPrice, Draft: domain.NewDraft("d", fixedNow)}

	res, err := e.StepRegistration(context.Background(), "u", s, "hola")
	require.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.Equal(t, domain.NewSession(), res.Session)
}
