package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/myrjola/botornot/internal/contexthelpers"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/ssr"
	"github.com/myrjola/botornot/ui"
)

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	patterns := []string{
		"templates/base.gohtml",
		fmt.Sprintf("templates/pages/%s/*.gohtml", pageName),
	}

	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	t, err := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
		"inc": func(i int) int {
			return i + 1
		},
	}).ParseFS(ui.Files, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "parse templates", slog.String("page", pageName))
	}
	return t, nil
}

// renderPage executes the page template into a buffer.
func (app *application) renderPage(r *http.Request, file string, data any) (*bytes.Buffer, error) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(file); err != nil {
		return nil, errors.Wrap(err, "parse template", slog.String("template", file))
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		return nil, errors.Wrap(err, "execute template", slog.String("template", file))
	}
	return buf, nil
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, file string, data any) {
	buf, err := app.renderPage(r, file, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}

// renderBlind renders data like render but fails with [ssr.ErrCategoryLeak] when the page mentions any of
// categories. Words that also appear when rendering baseline belong to the page layout and are not reported.
func (app *application) renderBlind(
	r *http.Request,
	file string,
	data any,
	baseline any,
	categories []string,
) (*bytes.Buffer, error) {
	buf, err := app.renderPage(r, file, data)
	if err != nil {
		return nil, err
	}
	if !app.checkCategoryBlind {
		return buf, nil
	}
	layout, err := app.renderPage(r, file, baseline)
	if err != nil {
		return nil, errors.Wrap(err, "render baseline")
	}
	if err = ssr.CheckCategoryBlindAgainst(bytes.NewReader(buf.Bytes()), layout, categories); err != nil {
		return nil, errors.Wrap(err, "render puzzle", slog.String("template", file))
	}
	return buf, nil
}
