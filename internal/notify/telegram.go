// Package notify 兑换事件通知
package notify

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/studycloud111/xboard-go/internal/config"
	"github.com/studycloud111/xboard-go/internal/service"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"github.com/studycloud111/xboard-go/pkg/utils"
)

// TelegramNotifier 通过 Telegram Bot 向管理员推送兑换事件。
// 只发送消息，不注册任何处理器
type TelegramNotifier struct {
	bot     *tele.Bot
	chatIDs []int64
}

// NewTelegramNotifier 创建 Telegram 通知器，未启用或建连失败返回 nil
func NewTelegramNotifier(cfg *config.Config) *TelegramNotifier {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		return nil
	}

	pref := tele.Settings{
		Token: cfg.Telegram.BotToken,
		OnError: func(err error, c tele.Context) {
			logger.Error().Err(err).Msg("Telegram 通知错误")
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		logger.Error().Err(err).Msg("Telegram 通知器初始化失败")
		return nil
	}

	return &TelegramNotifier{
		bot:     b,
		chatIDs: cfg.Telegram.ChatIDs,
	}
}

// NotifyRedemption 推送兑换成功事件
func (n *TelegramNotifier) NotifyRedemption(userID int64, result *service.RedeemResult) {
	if n == nil {
		return
	}

	text := fmt.Sprintf(
		"🎁 *礼品卡兑换*\n\n卡片：%s\n兑换码：`%s`\n用户：`%d`\n时间：%s",
		result.TemplateName,
		utils.MaskCode(result.Code),
		userID,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	if result.Rewards.Balance > 0 {
		text += "\n余额：" + utils.FormatBalance(result.Rewards.Balance)
	}
	if result.Rewards.TransferEnable > 0 {
		text += "\n流量：" + utils.FormatTraffic(result.Rewards.TransferEnable)
	}
	if result.Multiplier > 1 {
		text += fmt.Sprintf("\n节日加成：x%.1f", result.Multiplier)
	}
	if result.OperationInfo != nil {
		text += "\n套餐：" + result.OperationInfo.Message
	}

	for _, chatID := range n.chatIDs {
		if _, err := n.bot.Send(tele.ChatID(chatID), text, tele.ModeMarkdown); err != nil {
			logger.Warn().Err(err).Int64("chat", chatID).Msg("兑换通知发送失败")
		}
	}
}
