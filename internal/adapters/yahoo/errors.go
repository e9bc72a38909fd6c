package yahoo

import "fmt"

// maxBodyExcerpt limita el cuerpo upstream que viaja dentro de un error.
const maxBodyExcerpt = 200

// AuthError: la credencial fue rechazada y el refresh también falló.
// No se reintenta más: se expone al caller con el cuerpo original truncado.
type AuthError struct {
	Body string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("yahoo: auth failed and token refresh failed: %s", e.Body)
}

// APIError: respuesta no-200 no relacionada con auth.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo: api error %d: %s", e.Status, e.Body)
}

// TimeoutError: la llamada superó su timeout. Transitorio: el caller puede
// reintentar la operación completa, aquí no se reintenta automáticamente.
type TimeoutError struct {
	Endpoint string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("yahoo: timeout calling %s: %v", e.Endpoint, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// MissingTeamError: ningún equipo de la liga pertenece al usuario autenticado.
type MissingTeamError struct {
	LeagueKey string
}

func (e *MissingTeamError) Error() string {
	return fmt.Sprintf("yahoo: no team owned by the authenticated user in league %s", e.LeagueKey)
}

// MissingTeam permite detectar este error desde capas que no conocen el
// adapter, vía errors.As sobre la interfaz { MissingTeam() bool }.
func (e *MissingTeamError) MissingTeam() bool { return true }

// truncateBody recorta el cuerpo de una respuesta para logs y errores.
func truncateBody(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt])
	}
	return string(body)
}
