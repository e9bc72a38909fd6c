// Package strategy define los perfiles de pesos que parametrizan el scoring.
// Cada perfil encapsula un apetito de riesgo distinto; el scoring en sí vive
// en el paquete domain y es una función determinista de (jugador, perfil).
package strategy

import "fmt"

// Strategy es un perfil de pesos con nombre. Los pesos de proyección se
// aplican sobre puntos proyectados; Matchup y Trend escalan términos acotados
// ([-1,1] y [0,1]) a puntos; Stability penaliza el desacuerdo entre fuentes.
type Strategy struct {
	Name string

	Projection float64 // peso de la proyección primaria
	Secondary  float64 // peso de la proyección secundaria (o primaria si falta)
	Matchup    float64 // puntos máximos que aporta un matchup óptimo
	Trend      float64 // puntos máximos que aporta el momentum de adds
	Stability  float64 // penalización por punto de desacuerdo primaria/secundaria
}

// Perfiles disponibles. Conservative prioriza acuerdo entre proyecciones y
// minimiza la volatilidad de matchup/trend; Aggressive invierte ese énfasis;
// Balanced es el punto medio por defecto.
var (
	Conservative = Strategy{
		Name:       "conservative",
		Projection: 0.5,
		Secondary:  0.5,
		Matchup:    1.0,
		Trend:      0.5,
		Stability:  0.75,
	}

	Aggressive = Strategy{
		Name:       "aggressive",
		Projection: 0.5,
		Secondary:  0.5,
		Matchup:    5.0,
		Trend:      4.0,
		Stability:  0.1,
	}

	Balanced = Strategy{
		Name:       "balanced",
		Projection: 0.5,
		Secondary:  0.5,
		Matchup:    3.0,
		Trend:      2.0,
		Stability:  0.25,
	}
)

// ForName devuelve el perfil para el nombre dado.
func ForName(name string) (Strategy, error) {
	switch name {
	case "conservative":
		return Conservative, nil
	case "aggressive":
		return Aggressive, nil
	case "balanced", "":
		return Balanced, nil
	}
	return Strategy{}, fmt.Errorf("strategy.ForName: unknown strategy %q", name)
}
