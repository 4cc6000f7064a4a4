// Package sessionstore implementa el almacén de sesión del cliente: un
// key/value efímero equivalente al sessionStorage del navegador. Solo dos
// entradas viven aquí y siempre se escriben/borran juntas: el bearer token y
// la identidad serializada.
package sessionstore

const (
	// KeyAuthToken bearer token opaco enviado como Authorization en cada llamada.
	KeyAuthToken = "authToken"
	// KeyUser identidad serializada en JSON.
	KeyUser = "user"
)

// Store contrato mínimo del almacén de sesión.
type Store interface {
	// Get devuelve el valor y si la clave existe.
	Get(key string) (string, bool)
	// Set escribe la clave. El error se reporta pero los llamadores de la
	// capa de sesión lo tragan y loguean: la sesión en memoria manda.
	Set(key, value string) error
	// Delete elimina la clave si existe.
	Delete(key string) error
}
