package server

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/JeanGrijp/dast-demo/csrf"
)

const (
	DeniedText  = "Acceso denegado"
	SuccessText = "CSRF validado con éxito."
)

const usersPage = `<h1>Usuarios</h1>
<ul>
  <li>admin</li>
  <li>ana</li>
  <li>carlos</li>
</ul>`

const statsPage = `<h1>Estadísticas</h1>
<ul>
  <li>Usuarios registrados: 3</li>
  <li>Visitas hoy: 42</li>
  <li>Errores: 0</li>
</ul>`

const loginPage = `<h1>Iniciar sesión</h1>
<form method="POST" action="/login">
  <input type="text" name="username" placeholder="Usuario">
  <input type="password" name="password" placeholder="Contraseña">
  <button type="submit">Entrar</button>
</form>`

const formPage = `<h1>Formulario protegido</h1>
<form method="POST" action="/process">
  <input type="hidden" name="%s" value="%s">
  <input type="text" name="mensaje" placeholder="Mensaje">
  <button type="submit">Enviar</button>
</form>`

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// homePage lists the pages mounted for variant.
func homePage(routes []Route, variant int) http.HandlerFunc {
	var b strings.Builder
	b.WriteString("<h1>¡Hola desde DevSecOps!</h1>\n<ul>\n")
	for _, rt := range routes {
		if rt.Method != http.MethodGet || rt.Path == "/" || rt.Link == "" || rt.MinVariant > variant {
			continue
		}
		fmt.Fprintf(&b, "  <li><a href=\"%s\">%s</a></li>\n", rt.Path, rt.Link)
	}
	b.WriteString("</ul>")
	body := b.String()

	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, body)
	}
}

func usersHandler(w http.ResponseWriter, r *http.Request) { writeHTML(w, usersPage) }

func statsHandler(w http.ResponseWriter, r *http.Request) { writeHTML(w, statsPage) }

func loginFormHandler(w http.ResponseWriter, r *http.Request) { writeHTML(w, loginPage) }

// loginHandler never checks the submitted credentials.
func loginHandler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	writeText(w, DeniedText)
}

func csrfFormHandler(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := csrf.TokenFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeHTML(w, fmt.Sprintf(formPage, field, html.EscapeString(tok)))
	}
}

func processHandler(w http.ResponseWriter, r *http.Request) { writeText(w, SuccessText) }

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
