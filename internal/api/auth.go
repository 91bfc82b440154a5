package api

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

const (
	authRealm  = `Basic realm="audiohal API"`
	authScheme = "basicAuth"
)

// withAuth marks an operation as requiring basic credentials.
func withAuth() []map[string][]string {
	return []map[string][]string{{authScheme: {}}}
}

// credentials pulls the base64 user:pass blob from the Authorization header
// or, for EventSource clients which cannot set headers, the auth query
// parameter.
func credentials(ctx huma.Context) (string, bool) {
	header := ctx.Header("Authorization")
	if header == "" {
		return ctx.Query("auth"), true
	}
	encoded, ok := strings.CutPrefix(header, "Basic ")
	return encoded, ok
}

type basicAuth struct {
	api  huma.API
	user []byte
	pass []byte
}

func (a basicAuth) middleware(ctx huma.Context, next func(huma.Context)) {
	if op := ctx.Operation(); op != nil && len(op.Security) == 0 {
		next(ctx)
		return
	}

	if msg, err := a.check(ctx); msg != "" {
		ctx.SetHeader("WWW-Authenticate", authRealm)
		if err != nil {
			huma.WriteErr(a.api, ctx, http.StatusUnauthorized, msg, err)
		} else {
			huma.WriteErr(a.api, ctx, http.StatusUnauthorized, msg)
		}
		return
	}
	next(ctx)
}

// check returns an empty message when the request carries valid credentials.
func (a basicAuth) check(ctx huma.Context) (string, error) {
	encoded, ok := credentials(ctx)
	switch {
	case !ok:
		return "Invalid authentication type", nil
	case encoded == "":
		return "Authentication required", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "Invalid credentials format", err
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "Invalid credentials format", nil
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), a.user)
	passOK := subtle.ConstantTimeCompare([]byte(pass), a.pass)
	if userOK&passOK != 1 {
		return "Invalid credentials", nil
	}
	return "", nil
}
