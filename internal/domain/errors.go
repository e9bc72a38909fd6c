package domain

import "fmt"

// InsufficientDataError señala que una etapa no obtuvo datos suficientes para
// operar con normalidad. Distingue "no hay datos" de "cero resultados
// legítimos": los callers degradan (ej. scoring solo con datos primarios) en
// vez de tratar el vacío como éxito silencioso.
type InsufficientDataError struct {
	Source string // etapa o fuente que quedó vacía
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data from %s: %s", e.Source, e.Reason)
}
