package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
)

// RenderCatalog produces the catalog context block appended to the
// persona prompt. The rendering is deterministic in catalog order. With
// redactLocators the model is told visual evidence exists but never
// sees the path; the server attaches imagery out of band.
func RenderCatalog(features []place.Feature, redactLocators bool) string {
	if len(features) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n=== BASE DE DATOS GEOGRÁFICA: MUELA DEL DIABLO ===\n\n")
	fmt.Fprintf(&b, "ESTADO: ACTIVO | REGISTROS: %d\n\n", len(features))

	for i, f := range features {
		fmt.Fprintf(&b, "REGISTRO #%d: %s\n", i+1, f.Name())

		if lng, lat, ok := f.Coordinates(); ok {
			fmt.Fprintf(&b, "   COORDENADAS: Lat %.6f°, Lng %.6f°\n", lat, lng)
		}

		p := f.Properties
		if p.Norte != nil && p.Sur != nil {
			fmt.Fprintf(&b, "   VECTOR UTM: N %s, S %s\n",
				strconv.FormatFloat(*p.Norte, 'f', -1, 64),
				strconv.FormatFloat(*p.Sur, 'f', -1, 64))
		}
		if p.Descripcion != "" {
			fmt.Fprintf(&b, "   DATOS: %s\n", p.Descripcion)
		}
		if p.ImagenURL != "" {
			if redactLocators {
				b.WriteString("   EVIDENCIA VISUAL: DISPONIBLE\n")
			} else {
				fmt.Fprintf(&b, "   EVIDENCIA VISUAL: DISPONIBLE (%s)\n", p.ImagenURL)
			}
		}

		b.WriteString("\n")
	}

	b.WriteString("PROTOCOLO DE ASISTENCIA:\n")
	b.WriteString("- Si preguntan qué hay en la zona, presenta los registros disponibles.\n")
	b.WriteString("- Si preguntan por un punto específico, entrega todos los datos del registro.\n")
	if redactLocators {
		b.WriteString("- Cuando un registro tenga evidencia visual, menciona que existe, pero NUNCA escribas la ruta ni el nombre del archivo: el sistema adjunta la imagen por separado.\n")
	} else {
		b.WriteString("- Cuando un registro tenga evidencia visual, siempre menciónala; puedes referirte a la ruta indicada entre paréntesis.\n")
	}

	return b.String()
}
