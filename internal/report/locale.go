package report

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys; the Spanish text doubles as the key.
const (
	msgTitle              = "Informe de Salud para %s"
	msgGenerated          = "Generado el: %s"
	msgBloodPressureTitle = "Lecturas de Presión Arterial"
	msgBloodSugarTitle    = "Lecturas de Azúcar en Sangre"
	msgDate               = "Fecha"
	msgTime               = "Hora"
	msgSystolic           = "Sistólica (mmHg)"
	msgDiastolic          = "Diastólica (mmHg)"
	msgPulse              = "Pulso (LPM)"
	msgGlucose            = "Glucosa (mg/dL)"
	msgContext            = "Contexto"
)

var english = map[string]string{
	msgTitle:              "Health Report for %s",
	msgGenerated:          "Generated on: %s",
	msgBloodPressureTitle: "Blood Pressure Readings",
	msgBloodSugarTitle:    "Blood Sugar Readings",
	msgDate:               "Date",
	msgTime:               "Time",
	msgSystolic:           "Systolic (mmHg)",
	msgDiastolic:          "Diastolic (mmHg)",
	msgPulse:              "Pulse (BPM)",
	msgGlucose:            "Glucose (mg/dL)",
	msgContext:            "Context",
	"En ayunas":           "Fasting",
	"Antes de comer":      "Before meal",
	"Después de comer":    "After meal",
	"Otro":                "Other",
}

var labels = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for key, translation := range english {
		_ = b.SetString(language.Spanish, key, key)
		_ = b.SetString(language.English, key, translation)
	}
	return b
}

// DefaultLocale is used when Options.Locale is unset.
var DefaultLocale = language.MustParse("es-ES")

// dateTimeLayouts mirrors the short date and medium time of each supported locale.
var supportedLocales = []struct {
	tag  language.Tag
	date string
	time string
}{
	{DefaultLocale, "2/1/2006", "15:04:05"},
	{language.AmericanEnglish, "1/2/2006", "3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006", "15:04:05"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// formatter renders labels, dates and times for one locale and zone.
type formatter struct {
	printer    *message.Printer
	dateLayout string
	timeLayout string
	location   *time.Location
}

func newFormatter(tag language.Tag, loc *time.Location) *formatter {
	_, idx, _ := localeMatcher.Match(tag)
	l := supportedLocales[idx]
	return &formatter{
		printer:    message.NewPrinter(l.tag, message.Catalog(labels)),
		dateLayout: l.date,
		timeLayout: l.time,
		location:   loc,
	}
}

func (f *formatter) label(key string, args ...any) string {
	return f.printer.Sprintf(key, args...)
}

func (f *formatter) date(t time.Time) string {
	return t.In(f.location).Format(f.dateLayout)
}

func (f *formatter) clock(t time.Time) string {
	return t.In(f.location).Format(f.timeLayout)
}
