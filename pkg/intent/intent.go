// Package intent holds the tag classifiers used by the query resolver. Every
// classifier is a pure function from query text to a closed set of tags,
// driven by an explicit trigger table.
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/normalize"
)

// Intent is the set of tags detected on one query.
type Intent struct {
	Continuation bool
	List         bool
	Day          string
	Color        classifier.ColorState
	HasColor     bool
	Quantity     int
}

// HasDay reports whether a day filter fired.
func (i Intent) HasDay() bool { return i.Day != "" }

// Deterministic reports whether list, day or color fired.
func (i Intent) Deterministic() bool {
	return i.List || i.HasDay() || i.HasColor
}

// Parse runs every classifier over text. now must already be in the
// timezone used to resolve "hoy".
func Parse(text string, now time.Time) Intent {
	words := normalize.Words(text)
	color, hasColor := DetectColor(words)
	day, _ := DetectDay(words, now)
	qty, _ := DetectQuantity(words)
	return Intent{
		Continuation: IsContinuation(words),
		List:         IsListRequest(words),
		Day:          day,
		Color:        color,
		HasColor:     hasColor,
		Quantity:     qty,
	}
}

// phrase matches a contiguous run of words.
type phrase []string

func p(s string) phrase { return strings.Fields(s) }

func (ph phrase) in(words []string) bool {
	if len(ph) == 0 || len(ph) > len(words) {
		return false
	}
	for i := 0; i+len(ph) <= len(words); i++ {
		match := true
		for j, w := range ph {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func anyPhrase(words []string, table []phrase) bool {
	for _, ph := range table {
		if ph.in(words) {
			return true
		}
	}
	return false
}

var continuationPhrases = []phrase{
	p("ver mas"),
	p("muestrame mas"),
	p("dame mas"),
	p("mas"),
	p("siguientes"),
	p("siguiente"),
	p("siguiente pagina"),
	p("continua"),
	p("continuar"),
	p("sigue"),
}

// continuationFiller may surround a continuation phrase. Anything else
// ("dame mas detalles del cliente") makes the query a question of its own.
var continuationFiller = map[string]bool{
	"quiero":     true,
	"puedes":     true,
	"me":         true,
	"por":        true,
	"favor":      true,
	"porfa":      true,
	"porfavor":   true,
	"clientes":   true,
	"registros":  true,
	"resultados": true,
	"ok":         true,
	"si":         true,
}

// IsContinuation reports a "see more" follow-up: a continuation phrase with
// nothing but filler words around it.
func IsContinuation(words []string) bool {
	for _, ph := range continuationPhrases {
		for i := 0; i+len(ph) <= len(words); i++ {
			if !ph.in(words[i:i+len(ph)]) {
				continue
			}
			if onlyFiller(words[:i]) && onlyFiller(words[i+len(ph):]) {
				return true
			}
		}
	}
	return false
}

func onlyFiller(words []string) bool {
	for _, w := range words {
		if !continuationFiller[w] {
			return false
		}
	}
	return true
}

// "dame" only asks for a list when a list object follows it.
var listPhrases = []phrase{
	p("lista"),
	p("listado"),
	p("listar"),
	p("muestrame"),
	p("muestra"),
	p("mostrar"),
	p("dame los"),
	p("dame las"),
	p("dame la lista"),
	p("dame mis"),
	p("dame todos"),
	p("dame todas"),
	p("dame clientes"),
	p("cuales clientes"),
	p("que clientes"),
	p("prioridad"),
	p("prioritarios"),
	p("urgentes"),
	p("a quien visito"),
}

// IsListRequest reports a list trigger. Color names are list triggers too.
func IsListRequest(words []string) bool {
	if anyPhrase(words, listPhrases) {
		return true
	}
	_, ok := DetectColor(words)
	return ok
}

var colorWords = map[string]classifier.ColorState{
	"negro":     classifier.ColorBlack,
	"negros":    classifier.ColorBlack,
	"negra":     classifier.ColorBlack,
	"negras":    classifier.ColorBlack,
	"rojo":      classifier.ColorRed,
	"rojos":     classifier.ColorRed,
	"roja":      classifier.ColorRed,
	"rojas":     classifier.ColorRed,
	"amarillo":  classifier.ColorAmber,
	"amarillos": classifier.ColorAmber,
	"amarilla":  classifier.ColorAmber,
	"amarillas": classifier.ColorAmber,
	"ambar":     classifier.ColorAmber,
	"verde":     classifier.ColorGreen,
	"verdes":    classifier.ColorGreen,
}

// DetectColor returns the first color word in the query.
func DetectColor(words []string) (classifier.ColorState, bool) {
	for _, w := range words {
		if c, ok := colorWords[w]; ok {
			return c, true
		}
	}
	return classifier.ColorUnknown, false
}

// Weekdays indexed by time.Weekday, in normalized form.
var Weekdays = [7]string{"domingo", "lunes", "martes", "miercoles", "jueves", "viernes", "sabado"}

var todayWords = map[string]bool{"hoy": true}

// DetectDay returns the normalized weekday named in the query. "hoy" is
// resolved with now.
func DetectDay(words []string, now time.Time) (string, bool) {
	for _, w := range words {
		if todayWords[w] {
			return Weekdays[now.Weekday()], true
		}
		for _, d := range Weekdays {
			if w == d {
				return d, true
			}
		}
	}
	return "", false
}

var quantityPattern = regexp.MustCompile(`(\d+)\s*(clientes|registros|primeros|ultimos)`)

var numberWords = map[string]int{
	"uno":    1,
	"dos":    2,
	"tres":   3,
	"cuatro": 4,
	"cinco":  5,
	"seis":   6,
	"siete":  7,
	"ocho":   8,
	"nueve":  9,
	"diez":   10,
}

// DetectQuantity returns a requested result count greater than zero.
func DetectQuantity(words []string) (int, bool) {
	if m := quantityPattern.FindStringSubmatch(strings.Join(words, " ")); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	for _, w := range words {
		if n, ok := numberWords[w]; ok {
			return n, true
		}
	}
	return 0, false
}
