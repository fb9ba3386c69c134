package ml

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

const interpretKey = "There is a %v probability of pain at %d hours."

var interpretCatalog = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.SetString(language.English, interpretKey, interpretKey)
	_ = b.SetString(language.BrazilianPortuguese, interpretKey, "Existe a probabilidade de %v de presença de dor em %d horas.")
	return b
}()

// SupportedLocales lists the languages Interpreter has sentences for.
func SupportedLocales() []language.Tag {
	return []language.Tag{language.English, language.BrazilianPortuguese}
}

// Interpreter renders probabilities as a whole percentage inside a fixed
// sentence.
type Interpreter struct {
	printer *message.Printer
}

func NewInterpreter(tag language.Tag) *Interpreter {
	return &Interpreter{printer: message.NewPrinter(tag, message.Catalog(interpretCatalog))}
}

func (i *Interpreter) Percent(probability float64) string {
	return i.printer.Sprintf("%v", number.Percent(probability, number.MaxFractionDigits(0)))
}

func (i *Interpreter) Interpret(probability float64, horizonHours int) string {
	return i.printer.Sprintf(interpretKey, number.Percent(probability, number.MaxFractionDigits(0)), horizonHours)
}

var defaultInterpreter = NewInterpreter(language.English)

func Interpret(probability float64, horizonHours int) string {
	return defaultInterpreter.Interpret(probability, horizonHours)
}
