package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Debug reports the running build and echoes the request, useful when
// poking a deployment through a proxy.
func Debug(repoURL, sha1ver, buildTime string) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		var b strings.Builder

		fmt.Fprintf(&b, "request: %s %s\n", r.Method, r.RequestURI)
		fmt.Fprintf(&b, "api version: %s\n", mux.Vars(r)["apiVersion"])
		fmt.Fprintf(&b, "source: %s/commit/%s\n", repoURL, sha1ver)
		fmt.Fprintf(&b, "built: %s\n", buildTime)

		b.WriteString("headers:\n")
		for name, values := range r.Header {
			fmt.Fprintf(&b, "  %s: %s\n", name, strings.Join(values, ", "))
		}

		servePlainText(rw, b.String())
	})
}
