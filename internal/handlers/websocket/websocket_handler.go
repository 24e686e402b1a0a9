// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/campaign"
	ws "reviewlottery-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origins vary per merchant, auth happens via the token
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades dashboard connections and subscribes them
// to a campaign's live event stream.
type WebSocketHandler struct {
	hub             *ws.Hub
	campaignService *service.CampaignService
	logger          *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, campaignService *service.CampaignService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:             hub,
		campaignService: campaignService,
		logger:          logger,
	}
}

// Subscribe upgrades the connection after verifying the merchant owns
// the requested campaign.
func (h *WebSocketHandler) Subscribe(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	if _, err := h.campaignService.GetCampaign(c.Request.Context(), merchantID, campaignID); err != nil {
		response.FromError(c, "failed to subscribe", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Int64("merchant_id", merchantID),
			zap.Int64("campaign_id", campaignID),
			zap.Error(err))
		return
	}

	ws.NewClient(h.hub, conn, merchantID, campaignID).Start()
}
