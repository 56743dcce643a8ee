package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// clerkFrontendAPI decodes the frontend API host embedded in a Clerk
// publishable key ("pk_test_<base64(host$)>"). It returns "" for keys it
// cannot read.
func clerkFrontendAPI(publishableKey string) string {
	parts := strings.SplitN(publishableKey, "_", 3)
	if len(parts) != 3 || parts[0] != "pk" {
		return ""
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(parts[2], "="))
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(string(raw), "$")
}

// handleSignIn renders the hosted sign-in widget. Sessions are handled
// entirely by the identity provider.
func (s *Server) handleSignIn(w http.ResponseWriter, _ *http.Request) {
	key := s.opts.ClerkPublishableKey
	if err := s.renderPage(w,
		map[string]any{
			"PublishableKey": key,
			"FrontendAPI":    clerkFrontendAPI(key),
			"ActiveNav":      "sign-in",
		},
		"base.html", "pages/sign_in.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
