package report

import (
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

// Page geometry in millimetres (A4 portrait).
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	MarginX       = 14.0
	TitleY        = 22.0
	SubtitleY     = 30.0
	TitleSize     = 18.0
	SubtitleSize  = 11.0
	HeadingSize   = 14.0
	TableGap      = 15.0
	HeadingOffset = 5.0
	PageBreakY    = 260.0
	TopY          = 22.0
	ContentBottom = 287.0
	HeaderHeight  = 8.0
	RowHeight     = 7.0
)

// Options pins everything Build would otherwise read from the environment.
type Options struct {
	Now      time.Time
	Location *time.Location
	Locale   language.Tag
}

type section struct {
	kind    domain.ReadingType
	heading string
	head    []string
	rows    [][]string
}

// Build lays out a profile as a report. It has no side effects.
func Build(profile domain.Profile, opts Options) *Document {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locale == language.Und {
		opts.Locale = DefaultLocale
	}
	f := newFormatter(opts.Locale, opts.Location)

	doc := &Document{
		Title:       f.label(msgTitle, profile.Name),
		Subtitle:    f.label(msgGenerated, f.date(opts.Now)),
		Filename:    Filename(profile.Name, opts.Now),
		GeneratedAt: opts.Now,
	}

	l := &layout{doc: doc}
	l.newPage()
	l.text(doc.Title, TitleSize, TitleY)
	l.text(doc.Subtitle, SubtitleSize, SubtitleY)
	l.offset = SubtitleY

	for _, s := range sections(profile.Readings, f) {
		if len(s.rows) == 0 {
			continue
		}
		l.table(s)
	}
	return doc
}

func sections(readings []domain.Reading, f *formatter) []section {
	bp := section{
		kind:    domain.ReadingTypeBloodPressure,
		heading: f.label(msgBloodPressureTitle),
		head:    []string{f.label(msgDate), f.label(msgTime), f.label(msgSystolic), f.label(msgDiastolic), f.label(msgPulse)},
	}
	bs := section{
		kind:    domain.ReadingTypeBloodSugar,
		heading: f.label(msgBloodSugarTitle),
		head:    []string{f.label(msgDate), f.label(msgTime), f.label(msgGlucose), f.label(msgContext)},
	}

	for _, r := range readings {
		at := r.Time()
		switch r.Type() {
		case domain.ReadingTypeBloodPressure:
			bp.rows = append(bp.rows, []string{
				f.date(at),
				f.clock(at),
				strconv.Itoa(r.BloodPressure.Systolic),
				strconv.Itoa(r.BloodPressure.Diastolic),
				strconv.Itoa(r.BloodPressure.Pulse),
			})
		case domain.ReadingTypeBloodSugar:
			bs.rows = append(bs.rows, []string{
				f.date(at),
				f.clock(at),
				strconv.Itoa(r.BloodSugar.Glucose),
				f.label(r.BloodSugar.Context.Label()),
			})
		}
	}
	return []section{bp, bs}
}

// layout tracks the cursor while elements are placed.
type layout struct {
	doc    *Document
	offset float64
}

func (l *layout) page() *Page {
	return &l.doc.Pages[len(l.doc.Pages)-1]
}

func (l *layout) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{})
}

func (l *layout) text(content string, size, y float64) {
	p := l.page()
	p.Elements = append(p.Elements, Element{
		Kind: ElementText,
		Text: &Text{Content: content, FontSize: size, X: MarginX, Y: y},
	})
}

func (l *layout) table(s section) {
	l.offset += TableGap
	if l.offset > PageBreakY {
		l.newPage()
		l.offset = TopY
	}
	l.text(s.heading, HeadingSize, l.offset)

	segment := &Table{Section: s.kind, Head: s.head, X: MarginX, StartY: l.offset + HeadingOffset}
	y := segment.StartY + HeaderHeight
	for _, row := range s.rows {
		if y+RowHeight > ContentBottom {
			segment.FinalY = y
			l.place(segment)
			l.newPage()
			segment = &Table{Section: s.kind, Head: s.head, X: MarginX, StartY: TopY, Continued: true}
			y = TopY + HeaderHeight
		}
		segment.Rows = append(segment.Rows, row)
		y += RowHeight
	}
	segment.FinalY = y
	l.place(segment)
	l.offset = y
}

func (l *layout) place(t *Table) {
	p := l.page()
	p.Elements = append(p.Elements, Element{Kind: ElementTable, Table: t})
}
