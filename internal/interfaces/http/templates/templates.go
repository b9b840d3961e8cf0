package templates

import (
	"embed"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed *.html
var files embed.FS

// DropInScriptURL is the gateway-hosted payment widget loaded by the merchant page
const DropInScriptURL = "https://js.braintreegateway.com/web/dropin/1.43.0/js/dropin.min.js"

// Funcs are available to every page
var Funcs = template.FuncMap{
	"money":        func(d decimal.Decimal) string { return d.StringFixed(2) },
	"upper":        strings.ToUpper,
	"dropinScript": func() string { return DropInScriptURL },
}

// Load parses the embedded pages. Templates are addressed by file name.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "*.html")
}
