package inventory

// Level clasificación del stock de un producto según los umbrales del negocio.
type Level string

const (
	LevelOut      Level = "out"
	LevelCritical Level = "critical"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelOK       Level = "ok"
)

// Thresholds umbrales configurables (critical <= low <= medium).
type Thresholds struct {
	Critical int
	Low      int
	Medium   int
}

// DefaultThresholds valores por defecto de la pantalla de ajustes del POS.
var DefaultThresholds = Thresholds{Critical: 5, Low: 15, Medium: 30}

// Classify devuelve el nivel del stock (servicio de dominio, sin I/O).
func Classify(stock int, t Thresholds) Level {
	switch {
	case stock <= 0:
		return LevelOut
	case stock <= t.Critical:
		return LevelCritical
	case stock <= t.Low:
		return LevelLow
	case stock <= t.Medium:
		return LevelMedium
	default:
		return LevelOK
	}
}
