package web

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/studycloud111/xboard-go/internal/config"
	"github.com/studycloud111/xboard-go/internal/service"
	"github.com/studycloud111/xboard-go/pkg/imggen"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"github.com/studycloud111/xboard-go/pkg/utils"
)

// currentUserID 从 X-User-ID 头解析调用方用户。
// 网关层完成鉴权后透传用户标识
func currentUserID(c *fiber.Ctx) (int64, error) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return 0, service.ErrUserNotSet
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrUserNotSet
	}
	return id, nil
}

// errorResponse 将服务层错误映射为 HTTP 响应
func errorResponse(c *fiber.Ctx, err error) error {
	var ineligible *service.IneligibleError
	if errors.As(err, &ineligible) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":       ineligible.Reason,
			"reason_code": ineligible.ReasonCode,
		})
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflict.Reason,
		})
	}
	var cfgErr *service.ConfigError
	if errors.As(err, &cfgErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": cfgErr.Reason,
		})
	}

	switch {
	case errors.Is(err, service.ErrCodeNotFound), errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotSet):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrExchangeDisabled), errors.Is(err, service.ErrTemplateDisabled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Error().Err(err).Str("path", c.Path()).Msg("礼品卡接口内部错误")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "服务器内部错误，请稍后重试",
	})
}

// CheckRequest 预检请求
type CheckRequest struct {
	Code string `json:"code"`
}

// CheckResponse 预检响应
type CheckResponse struct {
	Valid         bool                   `json:"valid"`
	Reason        string                 `json:"reason,omitempty"`
	ReasonCode    string                 `json:"reason_code,omitempty"`
	CodeInfo      *service.CodeInfo      `json:"code_info,omitempty"`
	Preview       *service.RewardPreview `json:"preview,omitempty"`
	PlanOperation *service.PlanOperation `json:"plan_operation,omitempty"`
}

// checkGiftCard 预检：验证兑换码和用户资格，预览奖励与套餐操作。
// 结果仅供展示，兑换时在事务内以行锁复检
func (s *Server) checkGiftCard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req CheckRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "缺少兑换码"})
	}

	if err := s.giftCard.ValidateIsActive(req.Code); err != nil {
		return errorResponse(c, err)
	}

	res, err := s.giftCard.CheckEligibility(req.Code, userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !res.CanRedeem {
		return c.JSON(CheckResponse{
			Valid:      false,
			Reason:     res.Reason,
			ReasonCode: res.ReasonCode,
		})
	}

	info, err := s.giftCard.GetCodeInfo(req.Code)
	if err != nil {
		return errorResponse(c, err)
	}
	preview, err := s.giftCard.PreviewRewards(req.Code, userID)
	if err != nil {
		return errorResponse(c, err)
	}
	planOp, err := s.giftCard.PredictPlanOperation(req.Code, userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(CheckResponse{
		Valid:         true,
		CodeInfo:      info,
		Preview:       preview,
		PlanOperation: planOp,
	})
}

// RedeemRequest 兑换请求
type RedeemRequest struct {
	Code    string                 `json:"code"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// redeemGiftCard 执行兑换
func (s *Server) redeemGiftCard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "缺少兑换码"})
	}

	result, err := s.giftCard.Redeem(req.Code, userID, req.Options)
	if err != nil {
		return errorResponse(c, err)
	}

	// 通知为尽力而为，不阻塞响应
	go s.telegram.NotifyRedemption(userID, result)
	go s.webhook.NotifyRedemption(userID, result)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// listGiftCardTemplates 列出启用中的礼品卡模板
func (s *Server) listGiftCardTemplates(c *fiber.Ctx) error {
	tpls, err := s.giftCard.ListActiveTemplates()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"data": tpls})
}

// getGiftCardInfo 查询兑换码公开信息
func (s *Server) getGiftCardInfo(c *fiber.Ctx) error {
	info, err := s.giftCard.GetCodeInfo(c.Params("code"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(info)
}

// getGiftCardImage 生成礼品卡分享图片
func (s *Server) getGiftCardImage(c *fiber.Ctx) error {
	info, err := s.giftCard.GetCodeInfo(c.Params("code"))
	if err != nil {
		return errorResponse(c, err)
	}

	var buf bytes.Buffer
	data := imggen.CardData{
		TemplateName: info.Template.Name,
		Description:  info.Template.Description,
		TypeName:     info.Template.TypeName,
		Code:         utils.MaskCode(info.Code),
		ThemeColor:   info.Template.ThemeColor,
		ExpiresAt:    info.ExpiresAt,
		GeneratedAt:  time.Now(),
	}
	if err := imggen.RenderCard(&buf, data, config.Get().GiftCard.CardFontPath); err != nil {
		logger.Error().Err(err).Str("code", c.Params("code")).Msg("分享卡片生成失败")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "图片生成失败",
		})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}
