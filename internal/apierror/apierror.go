// Package apierror holds the JSON envelopes written for 4xx/5xx responses.
// Internal error text never reaches the body; middleware.ErrorHandler logs it.
package apierror

// Codigo values let clients branch on the failure without parsing Detail.
const (
	CodigoEntradaInvalida    = "entrada_invalida"
	CodigoNoEncontrado       = "no_encontrado"
	CodigoSinDatos           = "sin_datos"
	CodigoDocumentoPendiente = "documento_no_disponible"
	CodigoCotizacion         = "cotizacion_no_disponible"
	CodigoCredenciales       = "credenciales_invalidas"
	CodigoValidacion         = "validacion"
)

type APIError struct {
	Detail string `json:"detail"`
	Codigo string `json:"codigo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Con builds an error carrying a machine readable codigo.
func Con(codigo, msg string) *APIError {
	return &APIError{Detail: msg, Codigo: codigo}
}

// ValidationError lists the failing field and the validator tag it broke.
type ValidationError struct {
	Detail string            `json:"detail"`
	Codigo string            `json:"codigo"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Codigo: CodigoValidacion, Fields: fields}
}
