package runtime

import "github.com/aretw0/tendero/pkg/domain"

// Replies sent to the merchant. The catalogue is fixed and Spanish.
const (
	msgWelcome = "¡Bienvenido al sistema de ventas!\n\nEscriba \"nueva venta\" para comenzar."

	msgAskClientName   = "Por favor, ingrese el nombre del cliente:"
	msgAskDescription  = "Ingrese la descripción del producto:"
	msgAskNextProduct  = "Ingrese la descripción del nuevo producto:"
	msgAskPrice        = "Ingrese el precio por unidad:"
	msgAskRemoval      = "Ingrese el número del producto a eliminar:"
	msgNothingToRemove = "No hay productos para eliminar."
	msgRemoved         = "Producto eliminado: "
	msgPaymentLabel    = "Método de pago: "
	msgConfirmQuestion = "*¿Desea confirmar la venta?*\nEscriba \"sí\" para confirmar o \"no\" para cancelar."

	msgInvalidUnitType     = "Por favor, seleccione un tipo de unidad válido."
	msgInvalidQuantity     = "Por favor, ingrese un número válido para la cantidad."
	msgInvalidPrice        = "Por favor, ingrese un número válido para el precio."
	msgInvalidAction       = "Por favor, seleccione una opción válida."
	msgInvalidRemoval      = "Por favor, ingrese un número válido que corresponda a un producto en el carrito."
	msgInvalidPayment      = "Por favor, seleccione un método de pago válido."
	msgInvalidConfirmation = "Por favor, escriba \"sí\" o \"si\" para confirmar o \"no\" para cancelar."

	msgSaleRegistered = "¡Venta registrada exitosamente!"
	msgSaleFailed     = "Ocurrió un error al registrar la venta. Por favor, intente nuevamente."
	msgSaleCancelled  = "Venta cancelada."
)

// Registration sub-flow replies.
const (
	msgUnregistered       = "¡Bienvenido al sistema de ventas!\n\nParece que no está registrado. Para registrarse, escriba \"registrar [NombreNegocio]\"."
	msgRegisterNeedsName  = "Por favor, incluya el nombre de su negocio al registrar. Ejemplo: \"registrar MiNegocio\"."
	msgAskEmail           = "Por favor, proporcione un correo electrónico para su registro:"
	msgInvalidEmail       = "Por favor, proporcione un correo electrónico válido."
	msgRegistrationLost   = "Ocurrió un error. Por favor, intente registrarse nuevamente."
	msgRegistered         = "¡Registro exitoso! Ahora puede iniciar ventas escribiendo \"nueva venta\"."
	msgRegistrationFailed = "Hubo un problema al registrar su negocio. Por favor, intente nuevamente."
)

// MessageGenericError is sent when a step fails unexpectedly.
const MessageGenericError = "Ocurrió un error. Por favor, intente nuevamente."

// Outcome returns the reply that reports the result of a step's effect once
// the host has performed it. err is the error of the Ledger or registry call.
// Effects without a deferred reply return "".
func Outcome(effect domain.Effect, err error) string {
	switch effect {
	case domain.EffectCommit:
		if err != nil {
			return msgSaleFailed
		}
		return msgSaleRegistered
	case domain.EffectRegister:
		if err != nil {
			return msgRegistrationFailed
		}
		return msgRegistered
	}
	return ""
}
