package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/template"

	"github.com/bakeops/ovenboard/pkg/models/api"
)

// Reporter renders views as formatted text for the terminal.
type Reporter struct {
	writer io.Writer
}

// tmplFuncs lets the templates print optional numeric columns; fmt does not
// dereference *float64 for %f.
var tmplFuncs = template.FuncMap{
	"f1": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", *v)
	},
	"iv": func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	},
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) HandleInventory(view api.InventoryView) error {
	tmpl := `
Inventory ({{len .Rows}} positions, lead time {{.LeadTimeDays}} days{{if .Stale}}, STALE snapshot{{end}})
{{- if gt .SkippedRecords 0}}
Skipped {{.SkippedRecords}} malformed record(s).
{{- end}}

{{range .Rows}}
- {{.Name}} [{{.Product}}]
  qty: {{.Quantity}}{{if .Threshold}}  threshold: {{iv .Threshold}}{{end}}  rate: {{printf "%.2f" .DailyRate}}/day
  status: {{.Status}}{{if .DaysUntilRestock}}  days until restock: {{f1 .DaysUntilRestock}}{{end}}
  {{- if gt .SuggestedOrderQty 0}}
  suggested order: {{.SuggestedOrderQty}} (est. {{.EstimatedOrderCost}})
  {{- end}}
{{end}}
`
	t, err := template.New("inventory").Funcs(tmplFuncs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view)
}

func (c *Reporter) HandleForecast(view api.ForecastView) error {
	tmpl := `
Forecast ({{len .Rows}} products{{if .Cached}}, cached{{end}})
{{- if gt .SkippedRecords 0}}
Skipped {{.SkippedRecords}} malformed record(s).
{{- end}}

{{range .Rows}}
- {{.Name}} [{{.Product}}] {{.FirstPeriod}} .. {{.LastPeriod}}
  total: {{printf "%.1f" .Total}}  avg: {{printf "%.1f" .Average}}  min: {{printf "%.1f" .Min}}  max: {{printf "%.1f" .Max}}  ({{.Count}} periods)
  {{- if .Expanded}}
  {{- range .Members}}
    {{.Period}}: {{printf "%.1f" .Value}}{{if .Baseline}} (baseline {{f1 .Baseline}}){{end}}
  {{- end}}
  {{- end}}
{{end}}
`
	t, err := template.New("forecast").Funcs(tmplFuncs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view)
}
