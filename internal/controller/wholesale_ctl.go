package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type WholesaleController struct {
	wholesaleService *service.WholesaleService
}

func NewWholesaleController(wholesaleService *service.WholesaleService) *WholesaleController {
	return &WholesaleController{wholesaleService: wholesaleService}
}

// ==================== 申请接口 ====================

// Apply 提交批发资质申请
// 新建返回 201，原地更新/重新提交返回 200
func (ctrl *WholesaleController) Apply(c *gin.Context) {
	var req dto.WholesaleApplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}
	if req.TamperFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体不允许指定归属", "code": "USER_ID_NOT_ALLOWED"})
		return
	}

	userID := middleware.GetUserID(c)
	profile, created, err := ctrl.wholesaleService.Apply(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, profile)
}

// GetMyApplication 查询本人批发申请
func (ctrl *WholesaleController) GetMyApplication(c *gin.Context) {
	userID := middleware.GetUserID(c)
	profile, err := ctrl.wholesaleService.GetMyApplication(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

// ==================== 审核接口（管理员） ====================

// ListApplications 批发申请列表
func (ctrl *WholesaleController) ListApplications(c *gin.Context) {
	var req dto.ListWholesaleReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	resp, err := ctrl.wholesaleService.ListApplications(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// Review 审核批发申请
func (ctrl *WholesaleController) Review(c *gin.Context) {
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的申请 ID", "code": "INVALID_PARAMS"})
		return
	}

	var req dto.ReviewWholesaleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}

	adminID := middleware.GetUserID(c)
	profile, err := ctrl.wholesaleService.Review(c.Request.Context(), applicationID, adminID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}
