package web

import (
	"errors"
	"net/http"
	"time"

	"emerald/internal/application/orchestrators"
	"emerald/internal/application/projections"
)

// handleAPIGallery returns the full gallery drill-down as JSON for
// progressive enhancement on the gallery page.
func handleAPIGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetGallery(r.Context(), projections.GetGalleryQuery{
		Viewer: viewerID(r),
	}, projections.GetGalleryDeps{
		EventStore: stores.EventStore,
		MediaStore: stores.MediaStore,
		LikeStore:  stores.LikeStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type likeRequest struct {
	MediaID string `json:"media_id"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// handleAPILike flips the caller's like on one media item.
func handleAPILike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req likeRequest
	if err := strictDecode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := orchestrators.ExecuteToggleLike(r.Context(), orchestrators.ToggleLikeInput{
		MediaID:   req.MediaID,
		AccountID: viewerID(r),
	}, orchestrators.ToggleLikeDeps{LikeStore: stores.LikeStore})
	switch {
	case errors.Is(err, orchestrators.ErrLoginRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, orchestrators.ErrMissingMedia):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{Liked: res.Liked, LikesCount: res.LikesCount})
}

type chatSendRequest struct {
	Message string `json:"message"`
}

type chatMessageJSON struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	FromUser  bool      `json:"from_user"`
	Timestamp time.Time `json:"timestamp"`
}

type chatSendResponse struct {
	UserMessage chatMessageJSON `json:"user_message"`
	BotMessage  chatMessageJSON `json:"bot_message"`
}

// handleAPIChatSend relays one visitor message through the assistant and
// returns both sides of the exchange. Webhook failures never surface as
// errors here; the orchestrator substitutes a fallback reply.
func handleAPIChatSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatSendRequest
	if err := strictDecode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := orchestrators.ExecuteChatReply(r.Context(), orchestrators.ChatReplyInput{
		Text: req.Message,
	}, orchestrators.ChatReplyDeps{Client: chatClient, Transcript: visitorTranscript(w, r)})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatSendResponse{
		UserMessage: chatMessageJSON{
			ID:        result.UserMessage.ID,
			Text:      result.UserMessage.Text,
			FromUser:  true,
			Timestamp: result.UserMessage.Timestamp,
		},
		BotMessage: chatMessageJSON{
			ID:        result.BotMessage.ID,
			Text:      result.BotMessage.Text,
			FromUser:  false,
			Timestamp: result.BotMessage.Timestamp,
		},
	})
}

type chatConfigResponse struct {
	UseWidget     bool   `json:"use_widget"`
	ScriptURL     string `json:"script_url,omitempty"`
	StylesheetURL string `json:"stylesheet_url,omitempty"`
	WebhookURL    string `json:"webhook_url,omitempty"`
}

// handleAPIChatConfig tells the front end which chat variant to mount:
// the built-in transcript UI or the embedded vendor widget.
func handleAPIChatConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := chatConfigResponse{UseWidget: chatWidget.Valid()}
	if resp.UseWidget {
		resp.ScriptURL = chatWidget.ScriptURL
		resp.StylesheetURL = chatWidget.StylesheetURL
		resp.WebhookURL = chatWidget.WebhookURL
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIPerf returns aggregated request and query timings for the
// last hour. Route registration restricts it to admins.
func handleAPIPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := perfCollector.Snapshot(time.Now().Add(-time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}
