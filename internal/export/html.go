// Static HTML rendering of a bundle. The page is self-contained: inline
// styles, no scripts, no external resources.
package export

import (
	"html/template"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// bundlePage is the view model handed to the template.
type bundlePage struct {
	Title      string
	ExportDate string
	AppVersion string
	Child      types.ChildInfo
	BirthDate  string
	Financial  types.FinancialLayer
	Metadata   types.MetadataLayer
	Emotional  types.EmotionalLayer
}

func newBundlePage(data *types.FullExportData) bundlePage {
	return bundlePage{
		Title:      "Semilla - historia de " + data.ChildInfo.Name,
		ExportDate: data.ExportDate.Format("2006-01-02"),
		AppVersion: data.AppVersion,
		Child:      data.ChildInfo,
		BirthDate:  data.ChildInfo.BirthDate.Format("2006-01-02"),
		Financial:  data.Financial,
		Metadata:   data.Metadata,
		Emotional:  data.Emotional,
	}
}

// templateFuncs expose the formatting the template needs.
var templateFuncs = template.FuncMap{
	"date": func(t types.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"datetime": func(t types.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	},
}

var bundleTemplate = template.Must(template.New("bundle").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { border-bottom: 2px solid #4a7c59; padding-bottom: .3rem; }
  h2 { color: #4a7c59; margin-top: 2rem; }
  table { border-collapse: collapse; width: 100%; font-size: .9rem; }
  th, td { border: 1px solid #ccc; padding: .35rem .6rem; text-align: left; }
  th { background: #eef5ef; }
  .meta { color: #666; font-size: .85rem; }
  .chapter { border-left: 3px solid #4a7c59; padding-left: 1rem; margin: 1rem 0; }
  .locked { color: #999; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Exportado el {{.ExportDate}} (app {{.AppVersion}}). {{.Child.Name}}, nacida/o el {{.BirthDate}}.</p>

<h2>Transacciones</h2>
<table>
<tr><th>Fecha</th><th>Tipo</th><th>Instrumento</th><th>Unidades</th><th>Precio</th><th>Total</th><th>Comision</th><th>Moneda</th></tr>
{{range .Financial.Transactions}}<tr>
<td>{{date .Date}}</td><td>{{.Kind}}</td><td>{{.Ticker}}</td><td>{{.Units}}</td><td>{{.PricePerUnit}}</td><td>{{.TotalAmount}}</td><td>{{.Fees}}</td><td>{{.Currency}}</td>
</tr>{{end}}
</table>
<p class="meta">Total invertido: {{.Financial.Portfolio.TotalInvested}} | Comisiones: {{.Financial.Portfolio.TotalFees}} | Transacciones: {{.Financial.Portfolio.TransactionCount}}</p>

<h2>Contexto de las decisiones</h2>
{{range .Metadata.TransactionMetadata}}{{with .Current}}
<div class="chapter">
<p>{{.Reason}}</p>
{{if .Context}}<p class="meta">{{.Context}}</p>{{end}}
{{if .Milestone}}<p class="meta">Hito: {{.Milestone}}</p>{{end}}
</div>
{{end}}{{end}}
{{range .Metadata.PeriodMetadata}}
<div class="chapter">
<h3>{{.Year}}</h3>{{with .Current}}
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
{{if .MarketContext}}<p class="meta">Mercado: {{.MarketContext}}</p>{{end}}
{{if .FamilyContext}}<p class="meta">Familia: {{.FamilyContext}}</p>{{end}}
{{end}}</div>
{{end}}

<h2>Capitulos</h2>
{{range .Emotional.Chapters}}{{with .Current}}
<div class="chapter">
<h3>{{.Title}}</h3>
{{if .Content}}<p>{{.Content}}</p>{{else}}<p class="locked">(contenido bloqueado)</p>{{end}}
</div>
{{end}}{{end}}

<h2>Narrativas anuales</h2>
{{range .Emotional.YearlyNarratives}}
<div class="chapter">
<h3>{{.Year}}{{with .Current}}{{if .Title}} &mdash; {{.Title}}{{end}}{{end}}</h3>
{{with .Current}}<p>{{.Body}}</p>{{end}}
</div>
{{end}}

</body>
</html>
`))
