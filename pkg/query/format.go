package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/intent"
	"mondichat-be/pkg/normalize"
)

// urgency orders BLACK first and UNKNOWN last.
func urgency(c classifier.ColorState) int {
	if c.Known() {
		return int(c)
	}
	return int(classifier.ColorGreen) + 1
}

// sortByUrgency orders clients most urgent first, then by name.
func sortByUrgency(clients []Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		ui, uj := urgency(clients[i].Summary.Color), urgency(clients[j].Summary.Color)
		if ui != uj {
			return ui < uj
		}
		return normalize.Text(clients[i].Name) < normalize.Text(clients[j].Name)
	})
}

// filterClients keeps clients visiting on day (substring of the normalized
// visit day) and, when hasColor, in color for any family.
func filterClients(clients []Client, day string, color classifier.ColorState, hasColor bool) []Client {
	var out []Client
	for _, c := range clients {
		if day != "" && !strings.Contains(normalize.Text(c.Day), day) {
			continue
		}
		if hasColor && !c.Summary.HasColor(color) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func inventoryText(s classifier.ClientSummary) string {
	if s.Descriptor != "" {
		return fmt.Sprintf("%s (%s)", s.Descriptor, s.TypeDisplay)
	}
	return s.TypeDisplay
}

// FormatBlock renders one client of a deterministic list.
func FormatBlock(c Client) string {
	s := c.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "👤 *%s* (%s)\n", orDash(c.Name), c.Code)
	fmt.Fprintf(&b, "📦 Exhibidor: %s\n", inventoryText(s))
	fmt.Fprintf(&b, "📅 Día: %s\n", orDash(c.Day))
	fmt.Fprintf(&b, "%s · unidades: %s\n", s.ColorDisplay, s.CountDisplay)
	fmt.Fprintf(&b, "📈 %s", s.DistanceDisplay)
	return b.String()
}

// renderPage joins the blocks of a page and adds the continuation hint.
func renderPage(blocks []string, remaining int) string {
	text := strings.Join(blocks, "\n\n")
	if remaining > 0 {
		text += "\n\n" + fmt.Sprintf(MsgMoreHint, remaining)
	}
	return text
}

// contextLine is the compact per-client line handed to the model.
func contextLine(c Client) string {
	s := c.Summary
	return fmt.Sprintf("- %s | %s | día: %s | tipo: %s | unidades: %s | estado: %s | %s | meta: %s",
		c.Code, orDash(c.Name), orDash(c.Day), s.TypeDisplay, s.CountDisplay,
		s.ColorDisplay, s.DistanceDisplay, strconv.FormatFloat(s.Target, 'f', -1, 64))
}

// BuildContext renders every client of the route, one per line.
func BuildContext(clients []Client) string {
	if len(clients) == 0 {
		return "(sin clientes cargados para esta ruta)"
	}
	lines := make([]string, len(clients))
	for i, c := range clients {
		lines[i] = contextLine(c)
	}
	return strings.Join(lines, "\n")
}

var monthNames = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio", "julio",
	"agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s de %d", intent.Weekdays[t.Weekday()], t.Day(), monthNames[t.Month()], t.Year())
}

// PromptBuilder assembles the system instruction for the generative fallback.
type PromptBuilder struct {
	route   Route
	now     time.Time
	clients []Client
}

func NewPromptBuilder(route Route, now time.Time, clients []Client) *PromptBuilder {
	return &PromptBuilder{route: route, now: now, clients: clients}
}

func (b *PromptBuilder) Build() string {
	var prompt strings.Builder
	b.writeRole(&prompt)
	b.writeColorTable(&prompt)
	b.writeRules(&prompt)
	b.writeClients(&prompt)
	return prompt.String()
}

func (b *PromptBuilder) writeRole(prompt *strings.Builder) {
	prompt.WriteString("<rol>\n")
	prompt.WriteString("Eres el asistente de ventas de un vendedor de ruta. Respondes en español, breve y concreto.\n")
	fmt.Fprintf(prompt, "Ruta: %s\n", b.route.RouteCode)
	fmt.Fprintf(prompt, "Avance de cuota: %s%%\n", strconv.FormatFloat(b.route.QuotaPercentage, 'f', -1, 64))
	fmt.Fprintf(prompt, "Fecha actual: %s\n", spanishDate(b.now))
	prompt.WriteString("</rol>\n\n")
}

func (b *PromptBuilder) writeColorTable(prompt *strings.Builder) {
	prompt.WriteString("<semaforo>\n")
	for _, c := range []classifier.ColorState{classifier.ColorBlack, classifier.ColorRed, classifier.ColorAmber, classifier.ColorGreen, classifier.ColorUnknown} {
		fmt.Fprintf(prompt, "%s %s: %s\n", c.Emoji(), c.Label(), colorMeaning[c])
	}
	prompt.WriteString("</semaforo>\n\n")
}

var colorMeaning = map[classifier.ColorState]string{
	classifier.ColorBlack:   "sin unidades, visita urgente",
	classifier.ColorRed:     "por debajo del mínimo amarillo, prioridad alta",
	classifier.ColorAmber:   "por debajo de la meta verde",
	classifier.ColorGreen:   "meta cumplida",
	classifier.ColorUnknown: "sin datos de inventario",
}

func (b *PromptBuilder) writeRules(prompt *strings.Builder) {
	prompt.WriteString("<reglas>\n")
	prompt.WriteString("- Usa solo los datos de la lista de clientes; si algo no está, dilo.\n")
	prompt.WriteString("- Prioriza NEGRO, luego ROJO, luego AMARILLO.\n")
	prompt.WriteString("- Formato para WhatsApp: *negritas*, emojis del semáforo, sin tablas ni markdown de encabezados.\n")
	prompt.WriteString("- Máximo 10 clientes por respuesta.\n")
	fmt.Fprintf(prompt, "- Si el vendedor pide registrar un reporte u observación, responde únicamente %s seguido del texto del reporte.\n", ReportMarker)
	prompt.WriteString("</reglas>\n\n")
}

func (b *PromptBuilder) writeClients(prompt *strings.Builder) {
	prompt.WriteString("<clientes>\n")
	prompt.WriteString(BuildContext(b.clients))
	prompt.WriteString("\n</clientes>\n")
}

// extractReport returns the text after the report marker, if any.
func extractReport(completion string) (string, bool) {
	idx := strings.Index(completion, ReportMarker)
	if idx < 0 {
		return "", false
	}
	content := strings.TrimSpace(completion[idx+len(ReportMarker):])
	content = strings.TrimLeft(content, ":- ")
	if content == "" {
		return "", false
	}
	return content, true
}
