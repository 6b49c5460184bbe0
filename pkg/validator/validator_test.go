package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutForm struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required,min=8"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=efectivo transferencia tarjeta"`
}

func TestValidate_OK(t *testing.T) {
	form := checkoutForm{Name: "Ana", Phone: "+56912345678", PaymentMethod: "efectivo"}
	assert.NoError(t, Validate(form))
}

func TestValidate_MissingRequired(t *testing.T) {
	form := checkoutForm{Phone: "+56912345678", PaymentMethod: "efectivo"}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["Name"])
	assert.Contains(t, err.Error(), "Name")
}

func TestValidate_Oneof(t *testing.T) {
	form := checkoutForm{Name: "Ana", Phone: "+56912345678", PaymentMethod: "cheque"}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["PaymentMethod"], "must be one of")
}

func TestValidate_MinLength(t *testing.T) {
	form := checkoutForm{Name: "Ana", Phone: "123", PaymentMethod: "tarjeta"}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Phone"], "at least 8")
}

func TestDecodeAndValidate_OK(t *testing.T) {
	body := `{"name":"Ana","phone":"+56912345678","payment_method":"transferencia"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var form checkoutForm
	require.NoError(t, DecodeAndValidate(r, &form))
	assert.Equal(t, "Ana", form.Name)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("{not json"))

	var form checkoutForm
	err := DecodeAndValidate(r, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
