package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"learnpath_backend/internal/curriculum"
	"learnpath_backend/internal/progression"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// ActionRequest 导航操作的可选请求体
type ActionRequest struct {
	Narrow  *bool                 `json:"narrow"`
	Session *progression.Snapshot `json:"session"`
}

// @Summary 获取学习路径课程树
// @Tags 学习路径
// @Produce json
// @Param id path string true "学习路径ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/learning-paths/{id} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	path, err := c.Service.GetPath(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.handleError(ctx, err, nil)
		return
	}
	util.Success(ctx, path)
}

// @Summary 打开学习路径（定位到续学位置）
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param narrow query bool false "窄屏视口"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{id}/navigator [get]
func (c *LearningPathController) Open(ctx *gin.Context) {
	var narrow *bool
	if s := ctx.Query("narrow"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			util.BadRequest(ctx, "invalid narrow flag")
			return
		}
		narrow = &b
	}

	view, err := c.Service.Open(ctx.Request.Context(), util.CurrentLearner(ctx), ctx.Param("id"), narrow)
	if err != nil {
		c.handleError(ctx, err, nil)
		return
	}
	util.Success(ctx, view)
}

// @Summary 选择路径介绍页
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/introduction [post]
func (c *LearningPathController) SelectIntroduction(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionIntroduction})
}

// @Summary 选择单元
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param unitId path string true "单元ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/units/{unitId} [post]
func (c *LearningPathController) SelectUnit(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionSelectUnit, UnitID: ctx.Param("unitId")})
}

// @Summary 选择模块
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param unitId path string true "单元ID"
// @Param moduleId path string true "模块ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/units/{unitId}/modules/{moduleId} [post]
func (c *LearningPathController) SelectModule(ctx *gin.Context) {
	c.apply(ctx, service.Action{
		Type:     service.ActionSelectModule,
		UnitID:   ctx.Param("unitId"),
		ModuleID: ctx.Param("moduleId"),
	})
}

// @Summary 选择单元测试
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param unitId path string true "单元ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/units/{unitId}/test [post]
func (c *LearningPathController) SelectUnitTest(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionSelectUnitTest, UnitID: ctx.Param("unitId")})
}

// @Summary 选择结业测试
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/final-test [post]
func (c *LearningPathController) SelectFinalTest(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionSelectFinalTest})
}

// @Summary 下一步
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/advance [post]
func (c *LearningPathController) Advance(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionAdvance})
}

// @Summary 标记当前模块完成并前进
// @Description 保存失败时返回 503，data 中为未改变的导航状态，可重试
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Failure 503 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/complete [post]
func (c *LearningPathController) Complete(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionComplete})
}

// @Summary 展开/折叠单元
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param unitId path string true "单元ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/units/{unitId}/toggle [post]
func (c *LearningPathController) ToggleUnit(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionToggleUnit, UnitID: ctx.Param("unitId")})
}

// @Summary 打开/关闭侧边栏（窄屏）
// @Tags 学习路径导航
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Param body body ActionRequest false "视口与会话"
// @Success 200 {object} util.Response{data=service.NavigatorView}
// @Router /api/learning-paths/{id}/navigator/sidebar [post]
func (c *LearningPathController) ToggleSidebar(ctx *gin.Context) {
	c.apply(ctx, service.Action{Type: service.ActionToggleSidebar})
}

// @Summary 获取学习进度
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path string true "学习路径ID"
// @Description 读取进度失败时返回零进度与 warning
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Failure 401 {object} util.Response
// @Router /api/learning-paths/{id}/progress [get]
func (c *LearningPathController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.Service.Progress(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		c.handleError(ctx, err, nil)
		return
	}
	util.Success(ctx, summary)
}

func (c *LearningPathController) apply(ctx *gin.Context, action service.Action) {
	// 请求体可选，分块传输时 ContentLength 为 -1
	if ctx.Request.Body != nil && ctx.Request.Body != http.NoBody {
		var req ActionRequest
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			util.BadRequest(ctx, err.Error())
			return
		}
		action.Narrow = req.Narrow
		action.Session = req.Session
	}

	view, err := c.Service.Apply(ctx.Request.Context(), util.CurrentLearner(ctx), ctx.Param("id"), action)
	if err != nil {
		c.handleError(ctx, err, view)
		return
	}
	util.Success(ctx, view)
}

func (c *LearningPathController) handleError(ctx *gin.Context, err error, view *service.NavigatorView) {
	var malformed *curriculum.MalformedCurriculumError
	var saveErr *progression.ProgressSaveError

	switch {
	case errors.Is(err, util.ErrPathNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidAction):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &malformed):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &saveErr):
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "进度保存失败，请重试", view)
	default:
		util.LogInternalError(ctx, err)
	}
}
