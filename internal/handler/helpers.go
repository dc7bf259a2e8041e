package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/caludio70/boletosventa-sub000/internal/apierror"
	"github.com/caludio70/boletosventa-sub000/internal/finanzas"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0, gt=0, lte=100 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to status codes. Anything unknown is
// attached to the context for ErrorHandler and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, finanzas.ErrEntradaInvalida):
		c.JSON(http.StatusBadRequest, apierror.Con(apierror.CodigoEntradaInvalida, err.Error()))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.Con(apierror.CodigoNoEncontrado, err.Error()))
	case errors.Is(err, finanzas.ErrSinDatos):
		c.JSON(http.StatusUnprocessableEntity, apierror.Con(apierror.CodigoSinDatos, err.Error()))
	case errors.Is(err, service.ErrDocumentoNoDisponible):
		c.JSON(http.StatusConflict, apierror.Con(apierror.CodigoDocumentoPendiente, err.Error()))
	case errors.Is(err, service.ErrCotizacionNoDisponible):
		c.JSON(http.StatusServiceUnavailable, apierror.Con(apierror.CodigoCotizacion, "Cotizacion del dolar no disponible"))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.Con(apierror.CodigoCredenciales, err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
