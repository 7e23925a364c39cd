// Package templates holds the HTML components of the back-office UI.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p class="alert-message">%s</p>`+
				`<p class="alert-action">%s</p><p class="alert-code">Code: %s</p></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
}

// ColumnTable lists the columns the importer accepts.
func ColumnTable(columns []core.ImportColumn) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<table class="columns"><thead><tr>`+
			`<th>Column</th><th>Alias</th><th>Required</th><th>Type</th><th>Description</th>`+
			`</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, c := range columns {
			required := ""
			if c.Required {
				required = "yes"
			}
			if _, err := fmt.Fprintf(w, `<tr><td><code>%s</code></td><td><code>%s</code></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(c.Name), templ.EscapeString(c.Alias), required,
				templ.EscapeString(c.Type), templ.EscapeString(c.Description)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}

// importScript posts the form to the import API and prints the summary.
const importScript = `<script>
document.getElementById("import-form").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const form = ev.target;
  const out = document.getElementById("result");
  const url = form.querySelector("[name=preview]").checked
    ? "/api/products/import/preview" : "/api/products/import";
  out.textContent = "Importing...";
  const res = await fetch(url, { method: "POST", body: new FormData(form), credentials: "same-origin" });
  out.textContent = JSON.stringify(await res.json(), null, 2);
});
</script>`

// ImportPage is the catalog import screen.
func ImportPage(columns []core.ImportColumn) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<title>Catalog import</title></head><body><main>`+
			`<h1>Catalog import</h1>`+
			`<form id="import-form" enctype="multipart/form-data">`+
			`<label>File (CSV or XLSX) <input type="file" name="file" accept=".csv,.xlsx" required></label>`+
			`<label>Mode <select name="mode">`); err != nil {
			return err
		}
		for _, m := range []core.Mode{core.ModeCreate, core.ModeUpdate, core.ModeUpsert, core.ModeSkipDuplicates} {
			if _, err := fmt.Fprintf(w, `<option value="%[1]s">%[1]s</option>`, m.String()); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</select></label>`+
			`<label><input type="checkbox" name="preview"> Preview only</label>`+
			`<button type="submit">Import</button></form>`+
			`<p><a href="/api/products/import/template?format=csv">CSV template</a> · `+
			`<a href="/api/products/import/template?format=xlsx">XLSX template</a> · `+
			`<a href="/api/products/export?format=csv">Export catalog</a></p>`+
			`<pre id="result"></pre><h2>Columns</h2>`); err != nil {
			return err
		}
		if err := ColumnTable(columns).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`+importScript+`</body></html>`)
		return err
	})
}
