package lead

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/pkg/leadgen"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
)

const maxWebhookBody = 1 << 20

// WebhookHandler ingests provider lead-form webhooks. Unauthenticated;
// authenticity comes from the per-provider HMAC signature.
type WebhookHandler struct {
	service *Service
	secrets map[leadgen.Provider]string
}

// NewWebhookHandler creates webhook handler with per-provider secrets
func NewWebhookHandler(service *Service, secrets map[leadgen.Provider]string) *WebhookHandler {
	return &WebhookHandler{service: service, secrets: secrets}
}

// Ingest handles POST /webhooks/leads/{provider}
func (h *WebhookHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	provider, err := leadgen.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		response.NotFound(w, "Unknown lead provider")
		return
	}

	secret, ok := h.secrets[provider]
	if !ok || secret == "" {
		response.NotFound(w, "Provider not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "Unreadable request body")
		return
	}

	signature := r.Header.Get(provider.SignatureHeader())
	if !leadgen.VerifySignature(body, signature, secret) {
		log.Warn().
			Str("provider", string(provider)).
			Str("remote_addr", r.RemoteAddr).
			Msg("Webhook signature rejected")
		response.Unauthorized(w, "Invalid webhook signature")
		return
	}

	payload, err := leadgen.ParsePayload(provider, body)
	if err != nil {
		response.BadRequest(w, "Malformed lead payload")
		return
	}

	l, err := h.service.Ingest(r.Context(), provider, payload, r.RemoteAddr, r.UserAgent())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, ToResponse(l))
}

// Routes returns the unauthenticated webhook routes
func (h *WebhookHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{provider}", h.Ingest)
	return r
}
