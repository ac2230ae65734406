package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/service"
)

// LoginHandlers contains HTTP handlers for the zkLogin demo flow.
type LoginHandlers struct {
	svc          *service.ZkLoginService
	keystorePath string
	redirectURL  string
}

// NewLoginHandlers creates new login handlers.
func NewLoginHandlers(svc *service.ZkLoginService, keystorePath, redirectURL string) *LoginHandlers {
	return &LoginHandlers{
		svc:          svc,
		keystorePath: keystorePath,
		redirectURL:  redirectURL,
	}
}

// Login starts a fresh session and redirects the user to the identity
// provider.
func (h *LoginHandlers) Login(c *gin.Context) {
	if err := h.svc.CreateZkpPayload(c.Request.Context(), h.keystorePath); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	var state any
	if s := c.Query("state"); s != "" {
		state = s
	}

	url, err := h.svc.GetURL(h.redirectURL, state)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, url)
}

// callbackPage forwards the URL fragment to the session endpoint. The
// provider returns the token in the fragment, which never reaches the
// server on its own.
const callbackPage = `<!DOCTYPE html>
<html>
<body>
<p>Completing login...</p>
<script>
fetch("/session", {
  method: "POST",
  headers: {"Content-Type": "application/json"},
  body: JSON.stringify({callback_url: window.location.href}),
}).then(r => r.json()).then(data => {
  document.body.innerText = JSON.stringify(data);
});
</script>
</body>
</html>`

// Callback serves the page that relays the provider redirect fragment.
func (h *LoginHandlers) Callback(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackPage))
}

// Session completes the login from the relayed callback URL and resolves
// the account address.
func (h *LoginHandlers) Session(c *gin.Context) {
	var req struct {
		CallbackURL string `json:"callback_url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.svc.SetZkLogin(c.Request.Context(), req.CallbackURL); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	account, err := h.svc.GetAddress(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, account)
}

// Params returns the session's proof parameter triple, e.g. for a caller
// persisting it across restarts.
func (h *LoginHandlers) Params(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetZkProofParams())
}

// Logout ends the session.
func (h *LoginHandlers) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// statusForError maps the error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case core.IsKind(err, core.KindJWTExtraction), core.IsKind(err, core.KindJWTFormat):
		return http.StatusBadRequest
	case core.IsKind(err, core.KindInvalidProof):
		return http.StatusUnauthorized
	case core.IsKind(err, core.KindNetwork):
		return http.StatusBadGateway
	case core.IsKind(err, core.KindInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
