package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Quinntas/max/internal/lead"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// qualifyRequest is the JSON API form of a pipeline invocation. The
// dealership is referenced by pid and resolved from the registry; omitting
// it runs with the default persona.
type qualifyRequest struct {
	MessageContent      string       `json:"messageContent"`
	ConversationContext string       `json:"conversationContext"`
	Channel             lead.Channel `json:"channel"`
	DealershipPID       string       `json:"dealershipPid,omitempty"`
	HasConsent          *bool        `json:"hasConsent,omitempty"` // defaults to true
}

func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	var req qualifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var d *lead.Dealership
	if req.DealershipPID != "" {
		var err error
		d, err = s.registry.ByPID(req.DealershipPID)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown dealership")
			return
		}
	}

	hasConsent := true
	if req.HasConsent != nil {
		hasConsent = *req.HasConsent
	}

	ch := req.Channel
	if ch == "" {
		ch = lead.ChannelSMS
	}

	result, err := s.pipe.Run(r.Context(), lead.PipelineContext{
		MessageContent:      req.MessageContent,
		ConversationContext: req.ConversationContext,
		Channel:             ch,
		Dealership:          d,
		HasConsent:          hasConsent,
	})
	if err != nil {
		if errors.Is(err, lead.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("qualify_request_failed")
		writeError(w, http.StatusInternalServerError, "pipeline run failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// webhookResponse carries the pipeline outcome back to the channel
// transport: the host sends MessageChunks and records the qualification.
type webhookResponse struct {
	Action        lead.Action `json:"action"`
	MessageChunks []string    `json:"messageChunks"`
}

// handleSMSWebhook accepts a Twilio-style form webhook (From/To/Body),
// verifies its signature when auth is configured, resolves the dealership
// by the destination number, and runs the pipeline.
//
// Conversation state lives in the host application. Twilio sends no history,
// so the host's webhook proxy injects a ConversationContext form field
// (newline-joined "SENDER: text", most recent last) before forwarding;
// a bare Twilio webhook runs with empty history.
func (s *Server) handleSMSWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	if s.authToken != "" {
		signature := r.Header.Get("X-Twilio-Signature")
		url := s.webhookBaseURL + r.URL.Path
		if !VerifySignature(s.authToken, url, r.PostForm, signature) {
			log.Warn().Str("path", r.URL.Path).Msg("webhook_signature_rejected")
			writeError(w, http.StatusForbidden, "invalid signature")
			return
		}
	}

	from := r.PostForm.Get("From")
	to := r.PostForm.Get("To")
	body := r.PostForm.Get("Body")

	d, err := s.registry.ByPhone(to)
	if err != nil {
		log.Error().Str("to", to).Msg("no_dealership_for_number")
		writeError(w, http.StatusNotFound, "unknown destination number")
		return
	}

	if err := s.registry.Allow(d.PID); err != nil {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	result, err := s.pipe.Run(r.Context(), lead.PipelineContext{
		MessageContent:      body,
		ConversationContext: r.PostForm.Get("ConversationContext"),
		Channel:             lead.ChannelSMS,
		Dealership:          d,
		HasConsent:          s.hasConsent(from, lead.ChannelSMS),
	})
	if err != nil {
		if errors.Is(err, lead.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("dealership", d.PID).Msg("webhook_pipeline_failed")
		writeError(w, http.StatusInternalServerError, "pipeline run failed")
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Action:        result.Action,
		MessageChunks: result.MessageChunks,
	})
}

// handleAgentsClear evicts cached agents so a tenant-config change takes
// effect without a restart. ?pid= clears one dealership; no pid clears all.
func (s *Server) handleAgentsClear(w http.ResponseWriter, r *http.Request) {
	if s.agents == nil {
		writeError(w, http.StatusNotFound, "agent cache not configured")
		return
	}
	pid := r.URL.Query().Get("pid")
	s.agents.Clear(pid)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
