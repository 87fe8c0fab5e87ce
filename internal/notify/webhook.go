package notify

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/studycloud111/xboard-go/internal/config"
	"github.com/studycloud111/xboard-go/internal/service"
	"github.com/studycloud111/xboard-go/pkg/logger"
)

// WebhookNotifier 将兑换事件以 JSON POST 推送到外部回调地址
type WebhookNotifier struct {
	client *resty.Client
	url    string
	secret string
}

// NewWebhookNotifier 创建 Webhook 通知器，未启用返回 nil
func NewWebhookNotifier(cfg *config.Config) *WebhookNotifier {
	if !cfg.Webhook.Enabled || cfg.Webhook.URL == "" {
		return nil
	}

	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(3 * time.Second)

	return &WebhookNotifier{
		client: client,
		url:    cfg.Webhook.URL,
		secret: cfg.Webhook.Secret,
	}
}

// redemptionEvent Webhook 事件载荷
type redemptionEvent struct {
	Event     string                `json:"event"`
	UserID    int64                 `json:"user_id"`
	Result    *service.RedeemResult `json:"result"`
	Timestamp int64                 `json:"timestamp"`
}

// NotifyRedemption 推送兑换成功事件，失败只记日志不重抛
func (n *WebhookNotifier) NotifyRedemption(userID int64, result *service.RedeemResult) {
	if n == nil {
		return
	}

	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Webhook-Secret", n.secret).
		SetBody(&redemptionEvent{
			Event:     "giftcard.redeemed",
			UserID:    userID,
			Result:    result,
			Timestamp: time.Now().Unix(),
		}).
		Post(n.url)
	if err != nil {
		logger.Warn().Err(err).Str("url", n.url).Msg("Webhook 通知发送失败")
		return
	}
	if resp.StatusCode() >= 400 {
		logger.Warn().
			Int("status", resp.StatusCode()).
			Str("url", n.url).
			Msg("Webhook 通知返回异常状态")
	}
}
